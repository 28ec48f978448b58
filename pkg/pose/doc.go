// Package pose defines the validated input domain of the movement-analysis
// pipeline: 33-landmark keypoint frames, sessions, and the fail-fast
// validation contract.
//
// Validation is all-or-nothing per session. There is no interpolation and no
// frame-dropping: a session containing even one malformed frame is rejected
// with an error wrapping ErrInvalidFrame, and never reaches feature
// extraction or the patient's baseline.
package pose
