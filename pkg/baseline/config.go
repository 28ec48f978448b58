package baseline

import "fmt"

// Config tunes baseline collection.
type Config struct {
	// RequiredSessions is how many sessions must be incorporated before the
	// baseline is established.
	RequiredSessions int `json:"required_sessions" koanf:"required_sessions"`

	// Adaptive enables slow exponential drift of the baseline means after
	// establishment. Deviations (std) never adapt. Off by default: an
	// established baseline is frozen until explicitly reset.
	Adaptive bool `json:"adaptive" koanf:"adaptive"`

	// AdaptiveAlpha is the per-session weight of new observations when
	// Adaptive is enabled.
	AdaptiveAlpha float64 `json:"adaptive_alpha" koanf:"adaptive_alpha"`
}

// NewDefaultConfig returns the clinical defaults: seven sessions to
// establish, frozen afterwards.
func NewDefaultConfig() Config {
	return Config{
		RequiredSessions: 7,
		Adaptive:         false,
		AdaptiveAlpha:    0.1,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.RequiredSessions < 2 {
		return fmt.Errorf("%w: required_sessions must be at least 2, got %d",
			ErrInvalidConfig, c.RequiredSessions)
	}
	if c.AdaptiveAlpha <= 0 || c.AdaptiveAlpha >= 1 {
		return fmt.Errorf("%w: adaptive_alpha must be in (0, 1), got %g",
			ErrInvalidConfig, c.AdaptiveAlpha)
	}
	return nil
}
