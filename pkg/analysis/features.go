package analysis

// Canonical feature names. Baseline storage and risk scoring key on these,
// so they are part of the persisted contract and must not change.
const (
	FeatureStrideLength      = "stride_length"
	FeatureCadence           = "cadence"
	FeatureGaitSymmetry      = "gait_symmetry"
	FeatureTremorFrequency   = "tremor_frequency"
	FeatureTremorAmplitude   = "tremor_amplitude"
	FeatureBradykinesiaScore = "bradykinesia_score"
)

// FeatureNames returns the canonical feature names in their stable order.
func FeatureNames() []string {
	return []string{
		FeatureStrideLength,
		FeatureCadence,
		FeatureGaitSymmetry,
		FeatureTremorFrequency,
		FeatureTremorAmplitude,
		FeatureBradykinesiaScore,
	}
}

// FeatureVector is the complete set of movement features extracted from one
// session. All values are finite; extraction fails with ErrInsufficientData
// rather than emit a NaN or Inf.
type FeatureVector struct {
	// StrideLength is the mean 3D distance covered by an ankle between
	// consecutive heel strikes of the same leg, in normalized image units.
	StrideLength float64 `json:"stride_length"`

	// Cadence is the number of heel strikes across both legs per minute.
	Cadence float64 `json:"cadence"`

	// GaitSymmetry compares total left and right ankle travel, where 1.0 is
	// perfectly symmetric and 0.0 is fully one-sided.
	GaitSymmetry float64 `json:"gait_symmetry"`

	// TremorFrequency is the dominant oscillation frequency of the more
	// affected wrist within the 4-12 Hz band, in Hz. Zero when no component
	// in the band rises above the noise floor.
	TremorFrequency float64 `json:"tremor_frequency"`

	// TremorAmplitude is the spectral amplitude at TremorFrequency, in
	// normalized image units. Zero when TremorFrequency is zero.
	TremorAmplitude float64 `json:"tremor_amplitude"`

	// BradykinesiaScore grades overall slowness of movement from 0 (fast,
	// fluid) to 1 (profoundly slow).
	BradykinesiaScore float64 `json:"bradykinesia_score"`
}

// Map returns the vector keyed by canonical feature name.
func (fv FeatureVector) Map() map[string]float64 {
	return map[string]float64{
		FeatureStrideLength:      fv.StrideLength,
		FeatureCadence:           fv.Cadence,
		FeatureGaitSymmetry:      fv.GaitSymmetry,
		FeatureTremorFrequency:   fv.TremorFrequency,
		FeatureTremorAmplitude:   fv.TremorAmplitude,
		FeatureBradykinesiaScore: fv.BradykinesiaScore,
	}
}

// Result is the full output of analyzing one session: the feature vector
// used for baseline comparison plus supplementary clinical findings.
type Result struct {
	Features FeatureVector `json:"features"`

	// RestingTremor reports rhythmic 4-6 Hz wrist oscillation, the classic
	// parkinsonian resting tremor. It is advisory and does not feed the
	// baseline.
	RestingTremor RestingTremor `json:"resting_tremor"`
}
