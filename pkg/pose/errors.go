package pose

import "errors"

// Frame validation errors. ErrInvalidFrame is the category sentinel every
// specific cause wraps; callers match with errors.Is(err, ErrInvalidFrame).
// A single malformed frame rejects the whole session.
var (
	ErrInvalidFrame          = errors.New("invalid frame")
	ErrKeypointCount         = errors.New("frame must contain exactly 33 keypoints")
	ErrNonMonotonicFrame     = errors.New("frame numbers must be strictly increasing")
	ErrNonMonotonicTimestamp = errors.New("timestamps must be non-decreasing")
	ErrConfidenceOutOfRange  = errors.New("confidence must be in [0, 1]")
	ErrNegativeFrameNumber   = errors.New("frame number must be non-negative")
	ErrNegativeTimestamp     = errors.New("timestamp must be non-negative")
	ErrNonFiniteValue        = errors.New("value must be finite")
)

// Session validation errors.
var (
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionIDRequired  = errors.New("session id is required")
	ErrPatientIDRequired  = errors.New("patient_id is required")
	ErrFrameCountMismatch = errors.New("frame_count does not match number of frames")
	ErrNegativeDuration   = errors.New("video_duration must be non-negative")
)
