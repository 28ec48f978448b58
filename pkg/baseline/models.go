package baseline

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
)

// State is the baseline lifecycle phase.
type State string

const (
	// StateCollecting means the baseline is still accumulating sessions and
	// cannot be compared against yet.
	StateCollecting State = "collecting"

	// StateEstablished means enough sessions have been incorporated and the
	// statistics are frozen.
	StateEstablished State = "established"
)

// FeatureStats holds the per-feature statistics a session is compared
// against. Std is the population standard deviation over the incorporated
// samples.
type FeatureStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Sample is one incorporated session's feature vector.
type Sample struct {
	SessionID  string                 `json:"session_id"`
	Features   analysis.FeatureVector `json:"features"`
	RecordedAt time.Time              `json:"recorded_at"`
}

// Baseline is a patient's learned normal movement profile. It is the only
// mutable state in the pipeline, and it only ever changes by incorporating
// a new session or by an explicit reset.
type Baseline struct {
	PatientID string `json:"patient_id"`

	State State `json:"state"`

	// Stats maps canonical feature names to their baseline statistics,
	// recomputed over all samples on every update while collecting.
	Stats map[string]FeatureStats `json:"stats"`

	// Samples is the collection history, in incorporation order.
	Samples []Sample `json:"samples"`

	// SessionIDs is the dedup ledger: every session that has ever touched
	// this baseline, including ones applied adaptively after establishment.
	SessionIDs []string `json:"session_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress describes how far a baseline is from being usable.
type Progress struct {
	State       State   `json:"state"`
	SampleCount int     `json:"sample_count"`
	Required    int     `json:"required"`
	Fraction    float64 `json:"fraction"`
}

// Established reports whether the baseline has gathered its full sample
// quota and its statistics are frozen.
func (b *Baseline) Established() bool {
	return b.State == StateEstablished
}

// SampleCount returns the number of sessions incorporated so far.
func (b *Baseline) SampleCount() int {
	return len(b.Samples)
}

// Contains reports whether the session has already touched this baseline.
func (b *Baseline) Contains(sessionID string) bool {
	for _, id := range b.SessionIDs {
		if id == sessionID {
			return true
		}
	}
	return false
}

// Progress summarizes the collection state against the required sample
// count.
func (b *Baseline) Progress(required int) Progress {
	p := Progress{
		State:       b.State,
		SampleCount: len(b.Samples),
		Required:    required,
	}
	if required > 0 {
		p.Fraction = float64(len(b.Samples)) / float64(required)
		if p.Fraction > 1 {
			p.Fraction = 1
		}
	}
	return p
}

// Clone returns a deep copy so callers can never alias stored state.
func (b *Baseline) Clone() *Baseline {
	if b == nil {
		return nil
	}
	out := *b
	if b.Stats != nil {
		out.Stats = make(map[string]FeatureStats, len(b.Stats))
		for k, v := range b.Stats {
			out.Stats[k] = v
		}
	}
	if b.Samples != nil {
		out.Samples = make([]Sample, len(b.Samples))
		copy(out.Samples, b.Samples)
	}
	if b.SessionIDs != nil {
		out.SessionIDs = make([]string, len(b.SessionIDs))
		copy(out.SessionIDs, b.SessionIDs)
	}
	return &out
}

// computeStats recomputes per-feature mean and population standard
// deviation over the full sample history. A single sample yields zero
// deviation, never NaN.
func computeStats(samples []Sample) map[string]FeatureStats {
	names := analysis.FeatureNames()
	series := make(map[string][]float64, len(names))
	for i := range samples {
		for name, v := range samples[i].Features.Map() {
			series[name] = append(series[name], v)
		}
	}
	out := make(map[string]FeatureStats, len(names))
	for _, name := range names {
		xs := series[name]
		out[name] = FeatureStats{
			Mean: stat.Mean(xs, nil),
			Std:  stat.PopStdDev(xs, nil),
		}
	}
	return out
}
