package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuromotionlabs/kinemetry/pkg/pose"
)

func TestAnalyzeGait_Walking(t *testing.T) {
	s := walkingSession(t, 3.0)

	m, err := AnalyzeGait(s, NewDefaultConfig().Gait)
	require.NoError(t, err)

	// One strike per leg per second: 6 strikes over 3 seconds.
	assert.Equal(t, 6, m.HeelStrikes)
	assert.InDelta(t, 120.0, m.Cadence, 1.0)

	// Each leg drifts 0.1 units between its strikes.
	assert.Equal(t, 4, m.StridePairs)
	assert.InDelta(t, 0.1, m.StrideLength, 0.005)

	assert.InDelta(t, 1.0, m.Symmetry, 0.02)
}

func TestAnalyzeGait_StaticSession(t *testing.T) {
	s := staticSession(t, 90)

	m, err := AnalyzeGait(s, NewDefaultConfig().Gait)
	require.NoError(t, err)

	assert.Zero(t, m.HeelStrikes)
	assert.Zero(t, m.StrideLength)
	assert.Zero(t, m.Cadence)
	assert.Equal(t, 1.0, m.Symmetry)
}

func TestAnalyzeGait_OneSidedMovement(t *testing.T) {
	s := walkingSession(t, 3.0)
	for i := range s.Frames {
		s.Frames[i].Keypoints[pose.RightAnkle] = pose.Keypoint{X: 0.6, Y: 0.7}
	}

	m, err := AnalyzeGait(s, NewDefaultConfig().Gait)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, m.Symmetry, 1e-9)
}

func TestAnalyzeGait_TooFewFrames(t *testing.T) {
	s := staticSession(t, 1)

	_, err := AnalyzeGait(s, NewDefaultConfig().Gait)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.ErrorIs(t, err, ErrTooFewFrames)
}

func TestAnalyzeGait_ZeroDuration(t *testing.T) {
	s := staticSession(t, 60)
	s.VideoDuration = 0

	_, err := AnalyzeGait(s, NewDefaultConfig().Gait)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.ErrorIs(t, err, ErrZeroDuration)
}

func TestAnalyzeGait_LowConfidence(t *testing.T) {
	s := staticSession(t, 60)
	for i := range s.Frames {
		s.Frames[i].Confidence = 0.3
	}

	_, err := AnalyzeGait(s, NewDefaultConfig().Gait)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.ErrorIs(t, err, ErrLowConfidence)
}

func TestHeelStrikes_KeepsTallerOfClosePeaks(t *testing.T) {
	series := make([]float64, 30)
	series[10] = 1.0
	series[15] = 0.8

	strikes := heelStrikes(series, 10, 0.01)
	assert.Equal(t, []int{10}, strikes)
}

func TestHeelStrikes_SeparatedPeaksBothKept(t *testing.T) {
	series := make([]float64, 40)
	series[10] = 1.0
	series[25] = 0.8

	strikes := heelStrikes(series, 10, 0.01)
	assert.Equal(t, []int{10, 25}, strikes)
}

func TestHeelStrikes_ExcursionThreshold(t *testing.T) {
	// A wiggle that never rises far enough above the mean is not a strike.
	series := make([]float64, 30)
	series[10] = 0.005

	strikes := heelStrikes(series, 10, 0.01)
	assert.Empty(t, strikes)
}

func TestHeelStrikes_FlatSeries(t *testing.T) {
	series := make([]float64, 30)
	for i := range series {
		series[i] = 0.7
	}

	assert.Empty(t, heelStrikes(series, 10, 0.01))
}

func TestSymmetryRatio(t *testing.T) {
	tests := []struct {
		name  string
		left  float64
		right float64
		want  float64
	}{
		{"equal travel", 2.0, 2.0, 1.0},
		{"both motionless", 0.0, 0.0, 1.0},
		{"one leg still", 1.5, 0.0, 0.0},
		{"half travel", 1.0, 2.0, 0.5},
		{"order independent", 2.0, 1.0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, symmetryRatio(tt.left, tt.right), 1e-9)
		})
	}
}
