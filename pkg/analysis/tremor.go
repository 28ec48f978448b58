package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"

	"github.com/neuromotionlabs/kinemetry/pkg/pose"
)

// TremorMetrics are the spectral tremor features extracted from the wrist
// trajectories of one session.
type TremorMetrics struct {
	// Frequency is the dominant oscillation frequency within the action
	// tremor band, in Hz. Zero when neither wrist rises above the noise
	// floor, which is a valid no-tremor result.
	Frequency float64 `json:"frequency"`

	// Amplitude is the spectral amplitude at Frequency in normalized image
	// units. Zero exactly when Frequency is zero.
	Amplitude float64 `json:"amplitude"`

	// Wrist names the dominant wrist, empty when no tremor was detected.
	Wrist string `json:"wrist,omitempty"`
}

// RestingTremor reports rhythmic oscillation in the resting tremor band
// across both wrists. Absence of evidence is reported as absence, never as
// an error.
type RestingTremor struct {
	Present    bool    `json:"present"`
	Confidence float64 `json:"confidence"`
}

// AnalyzeTremor measures each wrist's oscillation spectrum and reports the
// stronger wrist's dominant component within the configured band. A peak
// must exceed the noise floor to count; a quiet spectrum yields zero
// frequency and amplitude, not an error.
func AnalyzeTremor(s *pose.Session, cfg TremorConfig) (TremorMetrics, error) {
	left, right, binHz, err := wristSpectra(s, cfg)
	if err != nil {
		return TremorMetrics{}, err
	}

	lf, la := bandPeak(left, binHz, cfg.MinFreq, cfg.MaxFreq)
	rf, ra := bandPeak(right, binHz, cfg.MinFreq, cfg.MaxFreq)

	m := TremorMetrics{Frequency: lf, Amplitude: la, Wrist: pose.LeftWrist.String()}
	if ra > la {
		m = TremorMetrics{Frequency: rf, Amplitude: ra, Wrist: pose.RightWrist.String()}
	}
	if m.Amplitude <= cfg.NoiseFloor {
		return TremorMetrics{}, nil
	}
	return m, nil
}

// DetectRestingTremor looks for rhythmic oscillation in the resting band on
// both wrists at once. Its confidence is the mean of the two wrists' peak
// amplitudes in that band, capped at 1. Sessions too short or too unevenly
// sampled for spectral analysis report no tremor.
func DetectRestingTremor(s *pose.Session, cfg TremorConfig) RestingTremor {
	left, right, binHz, err := wristSpectra(s, cfg)
	if err != nil {
		return RestingTremor{}
	}

	_, la := bandPeak(left, binHz, cfg.RestingMinFreq, cfg.RestingMaxFreq)
	_, ra := bandPeak(right, binHz, cfg.RestingMinFreq, cfg.RestingMaxFreq)

	conf := math.Min((la+ra)/2, 1.0)
	return RestingTremor{Present: conf > cfg.RestingThreshold, Confidence: conf}
}

// wristSpectra computes the one-sided amplitude spectrum of each wrist's
// oscillation signal, after verifying the recording is long enough to
// resolve the tremor band and uniformly sampled enough for the spectrum to
// mean anything. binHz is the width of one spectral bin.
func wristSpectra(s *pose.Session, cfg TremorConfig) (left, right []float64, binHz float64, err error) {
	n := len(s.Frames)
	if n < 3 {
		return nil, nil, 0, fmt.Errorf("%w: %w (need 3 frames, got %d)",
			ErrInsufficientData, ErrTooFewFrames, n)
	}
	binHz = cfg.SampleRate / float64(n)
	if binHz > cfg.MaxFreqResolution {
		return nil, nil, 0, fmt.Errorf("%w: %w (%d frames at %g fps gives %.2f Hz bins, need %.2f Hz or finer)",
			ErrInsufficientData, ErrFrequencyResolution, n, cfg.SampleRate, binHz, cfg.MaxFreqResolution)
	}
	if err := checkUniformSampling(s.Frames, cfg); err != nil {
		return nil, nil, 0, err
	}

	left = amplitudeSpectrum(oscillationSignal(s, pose.LeftWrist))
	right = amplitudeSpectrum(oscillationSignal(s, pose.RightWrist))
	return left, right, binHz, nil
}

// checkUniformSampling rejects recordings whose frame spacing deviates from
// the nominal 1/SampleRate interval by more than the configured tolerance.
func checkUniformSampling(frames []pose.Frame, cfg TremorConfig) error {
	nominal := 1.0 / cfg.SampleRate
	slack := cfg.SamplingTolerance * nominal
	for i := 1; i < len(frames); i++ {
		dt := frames[i].Timestamp - frames[i-1].Timestamp
		if math.Abs(dt-nominal) > slack {
			return fmt.Errorf("%w: %w (interval %.4fs before frame %d, nominal %.4fs)",
				ErrInsufficientData, ErrNonUniformSampling, dt, i, nominal)
		}
	}
	return nil
}

// oscillationSignal is the planar distance of one wrist from the image
// origin over time, linearly detrended. The wrist sits well away from the
// origin in normalized coordinates, so a small oscillation passes through
// the magnitude almost linearly and keeps its frequency content; the
// detrend removes the standing offset and any slow drift.
func oscillationSignal(s *pose.Session, wrist pose.Landmark) []float64 {
	sig := make([]float64, len(s.Frames))
	idx := make([]float64, len(s.Frames))
	for i := range s.Frames {
		p := s.Frames[i].Point(wrist)
		sig[i] = math.Hypot(p.X, p.Y)
		idx[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(idx, sig, nil, false)
	for i := range sig {
		sig[i] -= alpha + beta*idx[i]
	}
	return sig
}

// amplitudeSpectrum returns the one-sided spectrum of the signal, Hann
// windowed against leakage and scaled so a pure sinusoid of amplitude A
// reads A at its bin.
func amplitudeSpectrum(sig []float64) []float64 {
	n := len(sig)

	coeffs := make([]float64, n)
	for i := range coeffs {
		coeffs[i] = 1
	}
	window.Hann(coeffs)

	var sum float64
	windowed := make([]float64, n)
	for i, w := range coeffs {
		sum += w
		windowed[i] = sig[i] * w
	}

	fft := fourier.NewFFT(n)
	spectrum := fft.Coefficients(nil, windowed)

	amps := make([]float64, len(spectrum))
	for k, c := range spectrum {
		scale := 2.0
		if k == 0 || (n%2 == 0 && k == len(spectrum)-1) {
			scale = 1.0
		}
		amps[k] = scale * cmplx.Abs(c) / sum
	}
	return amps
}

// bandPeak returns the strongest spectral component within [minHz, maxHz].
func bandPeak(amps []float64, binHz, minHz, maxHz float64) (freq, amp float64) {
	for k := 1; k < len(amps); k++ {
		f := float64(k) * binHz
		if f < minHz || f > maxHz {
			continue
		}
		if amps[k] > amp {
			freq, amp = f, amps[k]
		}
	}
	return freq, amp
}
