package baseline

import "errors"

// Baseline lifecycle errors.
var (
	ErrBaselineNotFound = errors.New("baseline not found")
	ErrDuplicateSession = errors.New("session already incorporated into baseline")
	ErrPatientRequired  = errors.New("patient id is required")
	ErrSessionRequired  = errors.New("session id is required")
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid baseline config")
)
