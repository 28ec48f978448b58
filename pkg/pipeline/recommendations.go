package pipeline

import (
	"fmt"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
	"github.com/neuromotionlabs/kinemetry/pkg/pose"
	"github.com/neuromotionlabs/kinemetry/pkg/risk"
)

// Feature levels at which a finding warrants a specific follow-up,
// independent of the baseline comparison.
const (
	symmetryAdviceThreshold     = 0.7
	bradykinesiaAdviceThreshold = 0.6
	tremorAdviceThreshold       = 0.3
)

// recommendations derives follow-up actions from the session's features and
// assessment. The assessment may be nil while the baseline is collecting.
func recommendations(fv analysis.FeatureVector, a *risk.Assessment) []string {
	var recs []string

	if fv.GaitSymmetry < symmetryAdviceThreshold {
		recs = append(recs, "Gait asymmetry detected - consider physical therapy evaluation")
	}
	if fv.BradykinesiaScore > bradykinesiaAdviceThreshold {
		recs = append(recs, "Significant movement slowness - review medication timing with care team")
	}
	if fv.TremorAmplitude > tremorAdviceThreshold {
		recs = append(recs, "Pronounced tremor amplitude - assess current treatment efficacy")
	}

	if a != nil {
		switch a.Level {
		case risk.LevelHigh:
			recs = append(recs, "High risk level - urgent clinical review recommended")
		case risk.LevelMedium:
			recs = append(recs, "Moderate deviation from baseline - schedule follow-up within two weeks")
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "Continue current monitoring schedule")
	}
	return recs
}

// summarize builds the human-readable result line: what was processed, the
// headline features, and either the risk outcome or the collection state.
func summarize(s *pose.Session, fv analysis.FeatureVector, a *risk.Assessment, p baseline.Progress) string {
	head := fmt.Sprintf(
		"Video of %.1fs processed with %d frames. Gait Symmetry: %.2f%% | Bradykinesia Score: %.2f/1.0 | Tremor Amplitude: %.3f",
		s.VideoDuration, len(s.Frames),
		fv.GaitSymmetry*100, fv.BradykinesiaScore, fv.TremorAmplitude,
	)
	if a == nil {
		return fmt.Sprintf("%s | Baseline collecting: %d of %d sessions",
			head, p.SampleCount, p.Required)
	}
	return fmt.Sprintf("%s | Overall Risk Level: %s (deviation %.2f)",
		head, a.Level, a.DeviationScore)
}
