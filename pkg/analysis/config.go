package analysis

import "fmt"

// GaitConfig tunes heel-strike detection and the gait feature extractors.
type GaitConfig struct {
	// MinFrames is the minimum number of frames required to attempt gait
	// analysis.
	MinFrames int `json:"min_frames" koanf:"min_frames"`

	// MinConfidence is the minimum mean detection confidence across the
	// session. Below it the landmarks are considered unusable.
	MinConfidence float64 `json:"min_confidence" koanf:"min_confidence"`

	// MinPeakDistance is the minimum number of frames between two heel
	// strikes of the same leg. At 30 fps the default of 10 rejects anything
	// faster than three strikes per second.
	MinPeakDistance int `json:"min_peak_distance" koanf:"min_peak_distance"`

	// MinPeakExcursion is how far above the mean of the ankle height signal
	// a local maximum must rise to count as a heel strike, in normalized
	// image units.
	MinPeakExcursion float64 `json:"min_peak_excursion" koanf:"min_peak_excursion"`
}

// TremorConfig tunes the spectral tremor analysis.
type TremorConfig struct {
	// SampleRate is the expected capture rate in frames per second.
	SampleRate float64 `json:"sample_rate" koanf:"sample_rate"`

	// SamplingTolerance is the allowed relative deviation of each
	// frame-to-frame interval from 1/SampleRate before the recording is
	// rejected as non-uniformly sampled.
	SamplingTolerance float64 `json:"sampling_tolerance" koanf:"sampling_tolerance"`

	// MinFreq and MaxFreq bound the action tremor band in Hz.
	MinFreq float64 `json:"min_freq" koanf:"min_freq"`
	MaxFreq float64 `json:"max_freq" koanf:"max_freq"`

	// MaxFreqResolution is the coarsest acceptable spectral bin width in
	// Hz. Recordings too short to resolve the band at least this finely are
	// rejected.
	MaxFreqResolution float64 `json:"max_freq_resolution" koanf:"max_freq_resolution"`

	// NoiseFloor is the amplitude below which a spectral peak is treated as
	// noise rather than tremor, in normalized image units.
	NoiseFloor float64 `json:"noise_floor" koanf:"noise_floor"`

	// RestingMinFreq and RestingMaxFreq bound the resting tremor band in Hz.
	RestingMinFreq float64 `json:"resting_min_freq" koanf:"resting_min_freq"`
	RestingMaxFreq float64 `json:"resting_max_freq" koanf:"resting_max_freq"`

	// RestingThreshold is the combined two-wrist amplitude above which a
	// resting tremor is reported as present.
	RestingThreshold float64 `json:"resting_threshold" koanf:"resting_threshold"`
}

// BradykinesiaConfig tunes the movement slowness score.
type BradykinesiaConfig struct {
	// MinFrames is the minimum number of frames required to compute
	// velocities.
	MinFrames int `json:"min_frames" koanf:"min_frames"`

	// ReferenceVelocity is the whole-body mean velocity, in normalized
	// image units per second, that maps to the midpoint score of 0.5.
	ReferenceVelocity float64 `json:"reference_velocity" koanf:"reference_velocity"`
}

// Config carries the tuning for all three extraction stages.
type Config struct {
	Gait         GaitConfig         `json:"gait" koanf:"gait"`
	Tremor       TremorConfig       `json:"tremor" koanf:"tremor"`
	Bradykinesia BradykinesiaConfig `json:"bradykinesia" koanf:"bradykinesia"`
}

// NewDefaultConfig returns the tuning validated against 30 fps clinical
// capture.
func NewDefaultConfig() Config {
	return Config{
		Gait: GaitConfig{
			MinFrames:        2,
			MinConfidence:    0.5,
			MinPeakDistance:  10,
			MinPeakExcursion: 0.01,
		},
		Tremor: TremorConfig{
			SampleRate:        30.0,
			SamplingTolerance: 0.2,
			MinFreq:           4.0,
			MaxFreq:           12.0,
			MaxFreqResolution: 1.0,
			NoiseFloor:        0.005,
			RestingMinFreq:    4.0,
			RestingMaxFreq:    6.0,
			RestingThreshold:  0.05,
		},
		Bradykinesia: BradykinesiaConfig{
			MinFrames:         2,
			ReferenceVelocity: 0.5,
		},
	}
}

// Validate checks the configuration for values that would make extraction
// meaningless or divide by zero.
func (c *Config) Validate() error {
	if c.Gait.MinFrames < 2 {
		return fmt.Errorf("%w: gait.min_frames must be at least 2, got %d", ErrInvalidConfig, c.Gait.MinFrames)
	}
	if c.Gait.MinConfidence < 0 || c.Gait.MinConfidence > 1 {
		return fmt.Errorf("%w: gait.min_confidence must be in [0, 1], got %g", ErrInvalidConfig, c.Gait.MinConfidence)
	}
	if c.Gait.MinPeakDistance < 1 {
		return fmt.Errorf("%w: gait.min_peak_distance must be positive, got %d", ErrInvalidConfig, c.Gait.MinPeakDistance)
	}
	if c.Gait.MinPeakExcursion < 0 {
		return fmt.Errorf("%w: gait.min_peak_excursion must be non-negative, got %g", ErrInvalidConfig, c.Gait.MinPeakExcursion)
	}
	if c.Tremor.SampleRate <= 0 {
		return fmt.Errorf("%w: tremor.sample_rate must be positive, got %g", ErrInvalidConfig, c.Tremor.SampleRate)
	}
	if c.Tremor.SamplingTolerance < 0 || c.Tremor.SamplingTolerance >= 1 {
		return fmt.Errorf("%w: tremor.sampling_tolerance must be in [0, 1), got %g", ErrInvalidConfig, c.Tremor.SamplingTolerance)
	}
	if c.Tremor.MinFreq <= 0 || c.Tremor.MaxFreq <= c.Tremor.MinFreq {
		return fmt.Errorf("%w: tremor band [%g, %g] Hz is not a positive range", ErrInvalidConfig, c.Tremor.MinFreq, c.Tremor.MaxFreq)
	}
	if c.Tremor.MaxFreq > c.Tremor.SampleRate/2 {
		return fmt.Errorf("%w: tremor.max_freq %g Hz exceeds the Nyquist limit %g Hz", ErrInvalidConfig, c.Tremor.MaxFreq, c.Tremor.SampleRate/2)
	}
	if c.Tremor.MaxFreqResolution <= 0 {
		return fmt.Errorf("%w: tremor.max_freq_resolution must be positive, got %g", ErrInvalidConfig, c.Tremor.MaxFreqResolution)
	}
	if c.Tremor.NoiseFloor < 0 {
		return fmt.Errorf("%w: tremor.noise_floor must be non-negative, got %g", ErrInvalidConfig, c.Tremor.NoiseFloor)
	}
	if c.Tremor.RestingMinFreq <= 0 || c.Tremor.RestingMaxFreq <= c.Tremor.RestingMinFreq {
		return fmt.Errorf("%w: resting tremor band [%g, %g] Hz is not a positive range", ErrInvalidConfig, c.Tremor.RestingMinFreq, c.Tremor.RestingMaxFreq)
	}
	if c.Tremor.RestingThreshold < 0 {
		return fmt.Errorf("%w: tremor.resting_threshold must be non-negative, got %g", ErrInvalidConfig, c.Tremor.RestingThreshold)
	}
	if c.Bradykinesia.MinFrames < 2 {
		return fmt.Errorf("%w: bradykinesia.min_frames must be at least 2, got %d", ErrInvalidConfig, c.Bradykinesia.MinFrames)
	}
	if c.Bradykinesia.ReferenceVelocity <= 0 {
		return fmt.Errorf("%w: bradykinesia.reference_velocity must be positive, got %g", ErrInvalidConfig, c.Bradykinesia.ReferenceVelocity)
	}
	return nil
}
