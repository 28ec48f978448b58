package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfig_ValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"gait min frames below two", func(c *Config) { c.Gait.MinFrames = 1 }},
		{"gait confidence above one", func(c *Config) { c.Gait.MinConfidence = 1.5 }},
		{"gait peak distance zero", func(c *Config) { c.Gait.MinPeakDistance = 0 }},
		{"gait negative excursion", func(c *Config) { c.Gait.MinPeakExcursion = -0.1 }},
		{"tremor zero sample rate", func(c *Config) { c.Tremor.SampleRate = 0 }},
		{"tremor tolerance at one", func(c *Config) { c.Tremor.SamplingTolerance = 1.0 }},
		{"tremor inverted band", func(c *Config) { c.Tremor.MinFreq, c.Tremor.MaxFreq = 12, 4 }},
		{"tremor band beyond nyquist", func(c *Config) { c.Tremor.MaxFreq = 16 }},
		{"tremor zero resolution", func(c *Config) { c.Tremor.MaxFreqResolution = 0 }},
		{"tremor negative noise floor", func(c *Config) { c.Tremor.NoiseFloor = -1 }},
		{"resting inverted band", func(c *Config) { c.Tremor.RestingMinFreq, c.Tremor.RestingMaxFreq = 6, 4 }},
		{"bradykinesia zero reference", func(c *Config) { c.Bradykinesia.ReferenceVelocity = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
