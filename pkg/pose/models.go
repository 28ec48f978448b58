package pose

import (
	"encoding/json"
	"fmt"
	"math"
)

// Keypoint is one landmark position in normalized image coordinates.
// X and Y are typically in [0, 1]; Z is depth-relative to the hips.
//
// On the wire a keypoint is the array [x, y, z], matching the session
// contract with the pose-extraction collaborator.
type Keypoint struct {
	X float64
	Y float64
	Z float64
}

// MarshalJSON encodes the keypoint as [x, y, z].
func (k Keypoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{k.X, k.Y, k.Z})
}

// UnmarshalJSON decodes a keypoint from [x, y, z].
func (k *Keypoint) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("keypoint must be a coordinate array: %w", err)
	}
	if len(coords) != 3 {
		return fmt.Errorf("keypoint must have 3 coordinates, got %d", len(coords))
	}
	k.X, k.Y, k.Z = coords[0], coords[1], coords[2]
	return nil
}

// DistanceTo returns the 3D Euclidean distance to another keypoint.
// All spatial math in the pipeline uses 3D distances consistently.
func (k Keypoint) DistanceTo(other Keypoint) float64 {
	dx := k.X - other.X
	dy := k.Y - other.Y
	dz := k.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// finite reports whether all three coordinates are finite numbers.
func (k Keypoint) finite() bool {
	return !math.IsNaN(k.X) && !math.IsInf(k.X, 0) &&
		!math.IsNaN(k.Y) && !math.IsInf(k.Y, 0) &&
		!math.IsNaN(k.Z) && !math.IsInf(k.Z, 0)
}

// Frame is one sample of a session: 33 landmark positions plus a per-frame
// detection confidence.
type Frame struct {
	// FrameNumber is the non-negative capture index, strictly increasing
	// within a session.
	FrameNumber int `json:"frame_number"`

	// Timestamp is the capture time in seconds, monotonically non-decreasing
	// within a session.
	Timestamp float64 `json:"timestamp"`

	// Keypoints holds exactly 33 landmarks, indexed by Landmark.
	Keypoints []Keypoint `json:"keypoints"`

	// Confidence is the per-frame detection confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Point returns the keypoint for the given landmark. The frame must have
// passed validation; out-of-range landmarks panic like any slice index.
func (f *Frame) Point(l Landmark) Keypoint {
	return f.Keypoints[l]
}

// Validate checks the frame's intrinsic invariants: keypoint arity, finite
// values, and ranges. Cross-frame ordering is checked by Session.Validate.
func (f *Frame) Validate() error {
	if f.FrameNumber < 0 {
		return fmt.Errorf("%w: %w (frame_number %d)", ErrInvalidFrame, ErrNegativeFrameNumber, f.FrameNumber)
	}
	if math.IsNaN(f.Timestamp) || math.IsInf(f.Timestamp, 0) {
		return fmt.Errorf("%w: %w (timestamp %v)", ErrInvalidFrame, ErrNonFiniteValue, f.Timestamp)
	}
	if f.Timestamp < 0 {
		return fmt.Errorf("%w: %w (got %v)", ErrInvalidFrame, ErrNegativeTimestamp, f.Timestamp)
	}
	if len(f.Keypoints) != KeypointCount {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidFrame, ErrKeypointCount, len(f.Keypoints))
	}
	for i, kp := range f.Keypoints {
		if !kp.finite() {
			return fmt.Errorf("%w: %w (keypoint %d %q)", ErrInvalidFrame, ErrNonFiniteValue, i, Landmark(i))
		}
	}
	if math.IsNaN(f.Confidence) || f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("%w: %w (got %v)", ErrInvalidFrame, ErrConfidenceOutOfRange, f.Confidence)
	}
	return nil
}

// Session is an ordered, immutable-once-submitted sequence of pose frames
// for one recording.
//
// ID is the stable session identifier used for duplicate-submission
// detection; resubmitting an already-incorporated ID never mutates the
// patient's baseline.
type Session struct {
	// ID is the stable unique identifier for this session (UUID in practice).
	ID string `json:"id"`

	// PatientID identifies the patient whose baseline this session feeds.
	PatientID string `json:"patient_id"`

	// VideoDuration is the recording length in seconds.
	VideoDuration float64 `json:"video_duration"`

	// FrameCount is the declared number of frames; must equal len(Frames).
	FrameCount int `json:"frame_count"`

	// Frames is the ordered frame sequence.
	Frames []Frame `json:"pose_frames"`
}

// Validate normalizes nothing and repairs nothing: the first violated
// invariant fails the whole session (no interpolation, no frame-dropping).
//
// Checks, in order: identity fields, duration, declared frame count, each
// frame's intrinsic invariants, then strict frame-number ordering and
// non-decreasing timestamps across consecutive frames.
func (s *Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrSessionIDRequired)
	}
	if s.PatientID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrPatientIDRequired)
	}
	if math.IsNaN(s.VideoDuration) || math.IsInf(s.VideoDuration, 0) || s.VideoDuration < 0 {
		return fmt.Errorf("%w: %w (got %v)", ErrInvalidSession, ErrNegativeDuration, s.VideoDuration)
	}
	if s.FrameCount != len(s.Frames) {
		return fmt.Errorf("%w: %w (declared %d, got %d)", ErrInvalidSession, ErrFrameCountMismatch, s.FrameCount, len(s.Frames))
	}

	for i := range s.Frames {
		if err := s.Frames[i].Validate(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if i == 0 {
			continue
		}
		prev := &s.Frames[i-1]
		if s.Frames[i].FrameNumber <= prev.FrameNumber {
			return fmt.Errorf("frame %d: %w: %w (%d after %d)",
				i, ErrInvalidFrame, ErrNonMonotonicFrame, s.Frames[i].FrameNumber, prev.FrameNumber)
		}
		if s.Frames[i].Timestamp < prev.Timestamp {
			return fmt.Errorf("frame %d: %w: %w (%v after %v)",
				i, ErrInvalidFrame, ErrNonMonotonicTimestamp, s.Frames[i].Timestamp, prev.Timestamp)
		}
	}
	return nil
}

// MeanConfidence returns the mean per-frame detection confidence, or 0 for
// an empty session.
func (s *Session) MeanConfidence() float64 {
	if len(s.Frames) == 0 {
		return 0
	}
	var sum float64
	for i := range s.Frames {
		sum += s.Frames[i].Confidence
	}
	return sum / float64(len(s.Frames))
}
