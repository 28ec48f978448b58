package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neuromotionlabs/kinemetry/pkg/pose"
)

const testFPS = 30.0

// staticFrame returns a frame with every landmark parked at (0.5, 0.5, 0).
func staticFrame(num int) pose.Frame {
	kps := make([]pose.Keypoint, pose.KeypointCount)
	for i := range kps {
		kps[i] = pose.Keypoint{X: 0.5, Y: 0.5, Z: 0}
	}
	return pose.Frame{
		FrameNumber: num,
		Timestamp:   float64(num) / testFPS,
		Keypoints:   kps,
		Confidence:  0.9,
	}
}

func buildSession(t *testing.T, id string, frames []pose.Frame, duration float64) *pose.Session {
	t.Helper()
	s := &pose.Session{
		ID:            id,
		PatientID:     "patient-1",
		VideoDuration: duration,
		FrameCount:    len(frames),
		Frames:        frames,
	}
	require.NoError(t, s.Validate())
	return s
}

// staticSession is a motionless patient: n frames of identical keypoints.
func staticSession(t *testing.T, n int) *pose.Session {
	t.Helper()
	frames := make([]pose.Frame, n)
	for i := range frames {
		frames[i] = staticFrame(i)
	}
	return buildSession(t, "sess-static", frames, float64(n)/testFPS)
}

// walkingSession simulates steady gait: ankles step in antiphase at one
// stride per second per leg while drifting forward at 0.1 units/s.
func walkingSession(t *testing.T, seconds float64) *pose.Session {
	t.Helper()
	n := int(seconds * testFPS)
	frames := make([]pose.Frame, n)
	for i := range frames {
		f := staticFrame(i)
		ts := f.Timestamp
		phase := 2 * math.Pi * ts
		drift := 0.1 * ts
		f.Keypoints[pose.LeftAnkle] = pose.Keypoint{X: 0.4 + drift, Y: 0.7 + 0.05*math.Sin(phase)}
		f.Keypoints[pose.RightAnkle] = pose.Keypoint{X: 0.6 + drift, Y: 0.7 + 0.05*math.Sin(phase+math.Pi)}
		frames[i] = f
	}
	return buildSession(t, "sess-walk", frames, seconds)
}

// tremorSession oscillates both wrists horizontally at the given frequency
// and amplitude while the rest of the body holds still.
func tremorSession(t *testing.T, freq, amp, seconds float64) *pose.Session {
	t.Helper()
	n := int(seconds * testFPS)
	frames := make([]pose.Frame, n)
	for i := range frames {
		f := staticFrame(i)
		osc := amp * math.Sin(2*math.Pi*freq*f.Timestamp)
		f.Keypoints[pose.LeftWrist] = pose.Keypoint{X: 0.5 + osc, Y: 0.5}
		f.Keypoints[pose.RightWrist] = pose.Keypoint{X: 0.5 + osc, Y: 0.5}
		frames[i] = f
	}
	return buildSession(t, "sess-tremor", frames, seconds)
}

// clinicSession combines walking gait with a 6 Hz wrist tremor so every
// feature in the vector has signal.
func clinicSession(t *testing.T, seconds float64) *pose.Session {
	t.Helper()
	n := int(seconds * testFPS)
	frames := make([]pose.Frame, n)
	for i := range frames {
		f := staticFrame(i)
		ts := f.Timestamp
		phase := 2 * math.Pi * ts
		drift := 0.1 * ts
		osc := 0.02 * math.Sin(2*math.Pi*6.0*ts)
		f.Keypoints[pose.LeftAnkle] = pose.Keypoint{X: 0.4 + drift, Y: 0.7 + 0.05*math.Sin(phase)}
		f.Keypoints[pose.RightAnkle] = pose.Keypoint{X: 0.6 + drift, Y: 0.7 + 0.05*math.Sin(phase+math.Pi)}
		f.Keypoints[pose.LeftWrist] = pose.Keypoint{X: 0.45 + osc, Y: 0.5}
		f.Keypoints[pose.RightWrist] = pose.Keypoint{X: 0.55 + osc, Y: 0.5}
		frames[i] = f
	}
	return buildSession(t, "sess-clinic", frames, seconds)
}
