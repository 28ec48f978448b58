package pipeline

import (
	"time"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
	"github.com/neuromotionlabs/kinemetry/pkg/risk"
)

// Result is the complete outcome of processing one session end to end.
type Result struct {
	SessionID string `json:"session_id"`
	PatientID string `json:"patient_id"`

	// Features is the extracted movement feature vector.
	Features analysis.FeatureVector `json:"features"`

	// RestingTremor is the supplementary resting tremor finding.
	RestingTremor analysis.RestingTremor `json:"resting_tremor"`

	// Assessment is nil when the patient had no prior baseline to compare
	// against. Callers must treat that as "not yet scorable", never as
	// low risk.
	Assessment *risk.Assessment `json:"risk_assessment,omitempty"`

	// Baseline reports collection progress after this session was
	// incorporated.
	Baseline baseline.Progress `json:"baseline"`

	// Recommendations are follow-up actions derived from the features and
	// the assessment.
	Recommendations []string `json:"recommendations"`

	// Summary is a one-line human-readable description of the outcome.
	Summary string `json:"summary"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// NeedsReview reports whether the session was scored and flagged for
// clinical attention.
func (r *Result) NeedsReview() bool {
	return r.Assessment != nil && r.Assessment.NeedsReview()
}
