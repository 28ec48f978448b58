package risk

import "fmt"

// Config tunes the deviation thresholds.
type Config struct {
	// MediumThreshold is the mean z-score at which an assessment leaves
	// LOW. The boundary itself classifies as MEDIUM.
	MediumThreshold float64 `json:"medium_threshold" koanf:"medium_threshold"`

	// HighThreshold is the mean z-score at which an assessment becomes
	// HIGH. The boundary itself classifies as HIGH.
	HighThreshold float64 `json:"high_threshold" koanf:"high_threshold"`

	// NearZeroStd is the spread below which a feature is excluded from
	// scoring rather than divided by.
	NearZeroStd float64 `json:"near_zero_std" koanf:"near_zero_std"`

	// MaxDeviation caps the deviation score so a single wild session
	// cannot produce an unbounded number.
	MaxDeviation float64 `json:"max_deviation" koanf:"max_deviation"`
}

// NewDefaultConfig returns the clinically validated thresholds.
func NewDefaultConfig() Config {
	return Config{
		MediumThreshold: 1.5,
		HighThreshold:   3.0,
		NearZeroStd:     1e-6,
		MaxDeviation:    10.0,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MediumThreshold <= 0 {
		return fmt.Errorf("%w: medium_threshold must be positive, got %g",
			ErrInvalidConfig, c.MediumThreshold)
	}
	if c.HighThreshold <= c.MediumThreshold {
		return fmt.Errorf("%w: high_threshold %g must exceed medium_threshold %g",
			ErrInvalidConfig, c.HighThreshold, c.MediumThreshold)
	}
	if c.NearZeroStd < 0 {
		return fmt.Errorf("%w: near_zero_std must be non-negative, got %g",
			ErrInvalidConfig, c.NearZeroStd)
	}
	if c.MaxDeviation <= 0 {
		return fmt.Errorf("%w: max_deviation must be positive, got %g",
			ErrInvalidConfig, c.MaxDeviation)
	}
	return nil
}
