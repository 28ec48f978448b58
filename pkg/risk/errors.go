package risk

import "errors"

// Classification errors.
var (
	// ErrBaselineUnavailable means the patient has no baseline samples to
	// compare against. It is deliberately distinct from a LOW assessment:
	// "we cannot score this yet" must never read as "this patient is
	// fine".
	ErrBaselineUnavailable = errors.New("baseline unavailable")
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid risk config")
)
