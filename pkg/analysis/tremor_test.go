package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuromotionlabs/kinemetry/pkg/pose"
)

func TestAnalyzeTremor_RecoversSixHertz(t *testing.T) {
	s := tremorSession(t, 6.0, 0.02, 3.0)

	m, err := AnalyzeTremor(s, NewDefaultConfig().Tremor)
	require.NoError(t, err)

	assert.InDelta(t, 6.0, m.Frequency, 0.5)

	// The wrist sits at (0.5, 0.5), so the radial signal carries the
	// oscillation attenuated by x/|p| = 0.707.
	assert.InDelta(t, 0.02*0.7071, m.Amplitude, 0.004)
	assert.Equal(t, pose.LeftWrist.String(), m.Wrist)
}

func TestAnalyzeTremor_StaticSessionIsQuiet(t *testing.T) {
	s := staticSession(t, 60)

	m, err := AnalyzeTremor(s, NewDefaultConfig().Tremor)
	require.NoError(t, err)

	assert.Zero(t, m.Frequency)
	assert.Zero(t, m.Amplitude)
	assert.Empty(t, m.Wrist)
}

func TestAnalyzeTremor_OffBandOscillationIgnored(t *testing.T) {
	// 2 Hz is deliberate movement, not tremor; nothing should leak into
	// the 4-12 Hz band above the noise floor.
	s := tremorSession(t, 2.0, 0.05, 3.0)

	m, err := AnalyzeTremor(s, NewDefaultConfig().Tremor)
	require.NoError(t, err)

	assert.Zero(t, m.Frequency)
	assert.Zero(t, m.Amplitude)
}

func TestAnalyzeTremor_DominantWristWins(t *testing.T) {
	s := tremorSession(t, 6.0, 0.01, 3.0)
	for i := range s.Frames {
		ts := s.Frames[i].Timestamp
		osc := 0.04 * math.Sin(2*math.Pi*6.0*ts)
		s.Frames[i].Keypoints[pose.RightWrist] = pose.Keypoint{X: 0.5 + osc, Y: 0.5}
	}

	m, err := AnalyzeTremor(s, NewDefaultConfig().Tremor)
	require.NoError(t, err)

	assert.Equal(t, pose.RightWrist.String(), m.Wrist)
	assert.InDelta(t, 6.0, m.Frequency, 0.5)
	assert.Greater(t, m.Amplitude, 0.02)
}

func TestAnalyzeTremor_FrequencyResolutionGuard(t *testing.T) {
	// 20 frames at 30 fps resolves only 1.5 Hz bins, too coarse for the
	// tremor band.
	s := staticSession(t, 20)

	_, err := AnalyzeTremor(s, NewDefaultConfig().Tremor)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.ErrorIs(t, err, ErrFrequencyResolution)
}

func TestAnalyzeTremor_NonUniformSampling(t *testing.T) {
	s := staticSession(t, 60)
	for i := 30; i < len(s.Frames); i++ {
		s.Frames[i].Timestamp += 0.07
	}
	require.NoError(t, s.Validate())

	_, err := AnalyzeTremor(s, NewDefaultConfig().Tremor)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.ErrorIs(t, err, ErrNonUniformSampling)
}

func TestDetectRestingTremor_BothWrists(t *testing.T) {
	s := tremorSession(t, 5.0, 0.2, 3.0)

	rt := DetectRestingTremor(s, NewDefaultConfig().Tremor)
	assert.True(t, rt.Present)
	assert.InDelta(t, 0.2*0.7071, rt.Confidence, 0.02)
}

func TestDetectRestingTremor_QuietWrists(t *testing.T) {
	s := staticSession(t, 90)

	rt := DetectRestingTremor(s, NewDefaultConfig().Tremor)
	assert.False(t, rt.Present)
	// The windowed FFT of a detrended constant leaves rounding residue on
	// the order of 1e-20, not an exact zero.
	assert.InDelta(t, 0, rt.Confidence, 1e-12)
}

func TestDetectRestingTremor_ShortSessionReportsAbsence(t *testing.T) {
	s := staticSession(t, 10)

	rt := DetectRestingTremor(s, NewDefaultConfig().Tremor)
	assert.False(t, rt.Present)
	assert.InDelta(t, 0, rt.Confidence, 1e-12)
}

func TestAmplitudeSpectrum_PureSine(t *testing.T) {
	// A 0.3-amplitude sinusoid landing exactly on bin 8 of a 64-sample
	// window should read back its amplitude.
	n := 64
	sig := make([]float64, n)
	for i := range sig {
		sig[i] = 0.3 * math.Sin(2*math.Pi*8*float64(i)/float64(n))
	}

	amps := amplitudeSpectrum(sig)
	require.Len(t, amps, n/2+1)
	assert.InDelta(t, 0.3, amps[8], 0.01)

	// Energy away from the peak and its leakage shoulders stays near zero.
	assert.Less(t, amps[4], 0.01)
	assert.Less(t, amps[16], 0.01)
}

func TestCheckUniformSampling_WithinTolerance(t *testing.T) {
	s := staticSession(t, 60)
	// 10% jitter on one interval stays inside the 20% tolerance.
	for i := 30; i < len(s.Frames); i++ {
		s.Frames[i].Timestamp += 0.1 / testFPS
	}
	require.NoError(t, s.Validate())

	assert.NoError(t, checkUniformSampling(s.Frames, NewDefaultConfig().Tremor))
}
