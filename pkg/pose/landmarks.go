package pose

// Landmark identifies one of the 33 tracked anatomical points in a frame.
//
// Index position is the semantic joint identity, following the convention
// shared with the pose-extraction collaborator (BlazePose full-body model).
// The analyzers consume a small subset (wrists, hips, knees, ankles); the
// full table is published so downstream consumers can address any joint.
type Landmark int

const (
	Nose Landmark = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

// KeypointCount is the fixed number of landmarks per frame. Frames with any
// other arity are rejected, never padded.
const KeypointCount = 33

var landmarkNames = [KeypointCount]string{
	"nose", "left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear",
	"mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_pinky", "right_pinky",
	"left_index", "right_index",
	"left_thumb", "right_thumb",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
	"left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}

// String returns the canonical snake_case name of the landmark.
func (l Landmark) String() string {
	if l < 0 || int(l) >= KeypointCount {
		return "unknown"
	}
	return landmarkNames[l]
}

// Valid reports whether the landmark index is within the 33-point table.
func (l Landmark) Valid() bool {
	return l >= 0 && int(l) < KeypointCount
}
