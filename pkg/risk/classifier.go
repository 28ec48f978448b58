package risk

import (
	"math"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
)

// Level is the risk classification of one session.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// mediumConfidence is reported for MEDIUM assessments, which sit in the
// ambiguous middle band.
const mediumConfidence = 0.7

// highConfidenceScale is the deviation at which a HIGH assessment reaches
// full confidence.
const highConfidenceScale = 5.0

// Assessment is the outcome of comparing one session against an
// established baseline.
type Assessment struct {
	Level Level `json:"level"`

	// DeviationScore is the mean absolute z-score across scored features,
	// capped at the configured maximum.
	DeviationScore float64 `json:"deviation_score"`

	// Confidence grades how firmly the level holds, on [0, 1].
	Confidence float64 `json:"confidence"`

	// FeatureZScores maps each scored feature to its absolute z-score.
	FeatureZScores map[string]float64 `json:"feature_z_scores"`

	// ExcludedFeatures lists features whose baseline spread was too small
	// to divide by. They contribute nothing to the deviation score.
	ExcludedFeatures []string `json:"excluded_features,omitempty"`
}

// NeedsReview reports whether a clinician should look at this session.
func (a *Assessment) NeedsReview() bool {
	return a.Level == LevelMedium || a.Level == LevelHigh
}

// Classify scores a session's features against the patient's established
// baseline. It is a pure function: no clocks, no mutation of the baseline,
// identical inputs give identical assessments.
//
// Each feature deviates by |x-mean|/std; features whose baseline spread is
// near zero are excluded rather than divided by. The deviation score is the
// mean over scored features, capped at cfg.MaxDeviation.
//
// Any baseline with at least one incorporated sample is scorable, even one
// still collecting; early assessments simply exclude more features because
// their spreads are still zero. A nil or empty baseline fails with
// ErrBaselineUnavailable, which is never a LOW assessment.
func Classify(features analysis.FeatureVector, b *baseline.Baseline, cfg Config) (*Assessment, error) {
	if b == nil || b.SampleCount() == 0 {
		return nil, ErrBaselineUnavailable
	}

	vals := features.Map()
	zscores := make(map[string]float64)
	var excluded []string
	var sum float64

	for _, name := range analysis.FeatureNames() {
		stats, ok := b.Stats[name]
		if !ok || stats.Std <= cfg.NearZeroStd {
			excluded = append(excluded, name)
			continue
		}
		z := math.Abs(vals[name]-stats.Mean) / stats.Std
		zscores[name] = z
		sum += z
	}

	// A fully degenerate baseline scores zero deviation: the session is
	// indistinguishable from a history with no variation at all.
	var deviation float64
	if scored := len(zscores); scored > 0 {
		deviation = sum / float64(scored)
	}
	if deviation > cfg.MaxDeviation {
		deviation = cfg.MaxDeviation
	}

	level, confidence := grade(deviation, cfg)
	return &Assessment{
		Level:            level,
		DeviationScore:   deviation,
		Confidence:       confidence,
		FeatureZScores:   zscores,
		ExcludedFeatures: excluded,
	}, nil
}

// grade maps a deviation score to a level and a confidence. LOW confidence
// decays toward the MEDIUM boundary; HIGH confidence grows with the
// deviation until it saturates.
func grade(deviation float64, cfg Config) (Level, float64) {
	switch {
	case deviation >= cfg.HighThreshold:
		return LevelHigh, math.Min(1.0, deviation/highConfidenceScale)
	case deviation >= cfg.MediumThreshold:
		return LevelMedium, mediumConfidence
	default:
		return LevelLow, 1.0 - deviation/cfg.MediumThreshold
	}
}
