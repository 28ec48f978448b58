package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
)

// uniformBaseline gives every feature the same mean and spread, with one
// placeholder sample so the baseline is scorable. The values are exact in
// binary so threshold tests land precisely on the boundaries.
func uniformBaseline(mean, std float64) *baseline.Baseline {
	stats := make(map[string]baseline.FeatureStats)
	for _, name := range analysis.FeatureNames() {
		stats[name] = baseline.FeatureStats{Mean: mean, Std: std}
	}
	return &baseline.Baseline{
		PatientID: "p1",
		State:     baseline.StateEstablished,
		Stats:     stats,
		Samples:   []baseline.Sample{{SessionID: "seed"}},
	}
}

// featuresAt places every feature exactly k standard deviations from the
// baseline mean.
func featuresAt(b *baseline.Baseline, k float64) analysis.FeatureVector {
	st := b.Stats[analysis.FeatureStrideLength]
	x := st.Mean + k*st.Std
	return analysis.FeatureVector{
		StrideLength:      x,
		Cadence:           x,
		GaitSymmetry:      x,
		TremorFrequency:   x,
		TremorAmplitude:   x,
		BradykinesiaScore: x,
	}
}

func TestClassify_BaselineUnavailable(t *testing.T) {
	fv := analysis.FeatureVector{}

	_, err := Classify(fv, nil, NewDefaultConfig())
	assert.ErrorIs(t, err, ErrBaselineUnavailable)

	empty := uniformBaseline(1.0, 0.25)
	empty.State = baseline.StateCollecting
	empty.Samples = nil
	a, err := Classify(fv, empty, NewDefaultConfig())
	assert.ErrorIs(t, err, ErrBaselineUnavailable)
	assert.Nil(t, a)
}

func TestClassify_CollectingBaselineScorable(t *testing.T) {
	// A partially collected baseline already carries usable spreads once a
	// few sessions are in; it scores like any other.
	b := uniformBaseline(2.0, 0.25)
	b.State = baseline.StateCollecting

	a, err := Classify(featuresAt(b, 2.0), b, NewDefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, LevelMedium, a.Level)
	assert.InDelta(t, 2.0, a.DeviationScore, 1e-12)
}

func TestClassify_Levels(t *testing.T) {
	b := uniformBaseline(2.0, 0.25)
	cfg := NewDefaultConfig()

	tests := []struct {
		name      string
		k         float64
		wantLevel Level
	}{
		{"no deviation", 0, LevelLow},
		{"mild deviation", 1.25, LevelLow},
		{"medium boundary is medium", 1.5, LevelMedium},
		{"mid band", 2.5, LevelMedium},
		{"high boundary is high", 3.0, LevelHigh},
		{"far out", 4.0, LevelHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Classify(featuresAt(b, tt.k), b, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, a.Level)
			assert.InDelta(t, tt.k, a.DeviationScore, 1e-12)
		})
	}
}

func TestClassify_Confidence(t *testing.T) {
	b := uniformBaseline(2.0, 0.25)
	cfg := NewDefaultConfig()

	tests := []struct {
		name     string
		k        float64
		wantConf float64
	}{
		{"identical to baseline", 0, 1.0},
		{"halfway to medium", 0.75, 0.5},
		{"medium band", 2.0, 0.7},
		{"high scales with deviation", 4.0, 0.8},
		{"high saturates", 6.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Classify(featuresAt(b, tt.k), b, cfg)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantConf, a.Confidence, 1e-12)
		})
	}
}

func TestClassify_DeviationCapped(t *testing.T) {
	b := uniformBaseline(2.0, 0.25)

	a, err := Classify(featuresAt(b, 100), b, NewDefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, a.Level)
	assert.Equal(t, 10.0, a.DeviationScore)
	assert.Equal(t, 1.0, a.Confidence)
}

func TestClassify_NearZeroStdExcluded(t *testing.T) {
	b := uniformBaseline(2.0, 0.25)
	// A feature that never varied in the history would divide by ~zero.
	b.Stats[analysis.FeatureCadence] = baseline.FeatureStats{Mean: 110, Std: 0}

	fv := featuresAt(b, 0)
	fv.Cadence = 200 // wildly off a zero-spread feature

	a, err := Classify(fv, b, NewDefaultConfig())
	require.NoError(t, err)

	assert.Contains(t, a.ExcludedFeatures, analysis.FeatureCadence)
	assert.NotContains(t, a.FeatureZScores, analysis.FeatureCadence)
	assert.Equal(t, LevelLow, a.Level)
	assert.Zero(t, a.DeviationScore)
	assert.Len(t, a.FeatureZScores, len(analysis.FeatureNames())-1)
}

func TestClassify_AllFeaturesExcluded(t *testing.T) {
	b := uniformBaseline(2.0, 0)

	a, err := Classify(featuresAt(b, 0), b, NewDefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, LevelLow, a.Level)
	assert.Zero(t, a.DeviationScore)
	assert.Len(t, a.ExcludedFeatures, len(analysis.FeatureNames()))
	assert.Empty(t, a.FeatureZScores)
}

func TestClassify_PureFunction(t *testing.T) {
	b := uniformBaseline(2.0, 0.25)
	before := b.Clone()
	fv := featuresAt(b, 2.0)
	cfg := NewDefaultConfig()

	first, err := Classify(fv, b, cfg)
	require.NoError(t, err)
	second, err := Classify(fv, b, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, b)
}

func TestAssessment_NeedsReview(t *testing.T) {
	assert.False(t, (&Assessment{Level: LevelLow}).NeedsReview())
	assert.True(t, (&Assessment{Level: LevelMedium}).NeedsReview())
	assert.True(t, (&Assessment{Level: LevelHigh}).NeedsReview())
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero medium threshold", func(c *Config) { c.MediumThreshold = 0 }},
		{"high below medium", func(c *Config) { c.HighThreshold = 1.0 }},
		{"negative near zero std", func(c *Config) { c.NearZeroStd = -1 }},
		{"zero max deviation", func(c *Config) { c.MaxDeviation = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
