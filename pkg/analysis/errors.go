package analysis

import "errors"

// Insufficient-data errors. ErrInsufficientData is the category sentinel the
// specific causes wrap: the input was structurally valid but does not carry
// enough signal to compute a feature. These are surfaced to the caller as
// non-computable results, never as silent zeros, and retrying with the same
// input can never succeed.
var (
	ErrInsufficientData    = errors.New("insufficient data")
	ErrTooFewFrames        = errors.New("too few frames")
	ErrZeroDuration        = errors.New("video duration must be positive")
	ErrLowConfidence       = errors.New("mean detection confidence below usable threshold")
	ErrNonUniformSampling  = errors.New("frame timestamps deviate from uniform spacing")
	ErrFrequencyResolution = errors.New("signal too short to resolve the tremor band")
	ErrZeroTimeSpan        = errors.New("frames span zero time")
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid analysis config")
)
