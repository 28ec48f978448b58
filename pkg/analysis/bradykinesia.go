package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/neuromotionlabs/kinemetry/pkg/pose"
)

// ScoreBradykinesia grades overall slowness of movement on [0, 1]. It
// averages the 3D velocity of all landmarks across every frame pair with a
// positive time delta, normalizes by the reference velocity, and maps the
// result through 1/(1+v) so that faster movement scores lower. A perfectly
// still body scores 1.
func ScoreBradykinesia(s *pose.Session, cfg BradykinesiaConfig) (float64, error) {
	if n := len(s.Frames); n < cfg.MinFrames {
		return 0, fmt.Errorf("%w: %w (need %d frames, got %d)",
			ErrInsufficientData, ErrTooFewFrames, cfg.MinFrames, n)
	}

	vels := make([]float64, 0, len(s.Frames)-1)
	for i := 1; i < len(s.Frames); i++ {
		dt := s.Frames[i].Timestamp - s.Frames[i-1].Timestamp
		if dt <= 0 {
			// Repeated timestamps carry no velocity information.
			continue
		}
		var sum float64
		for j := range s.Frames[i].Keypoints {
			sum += s.Frames[i-1].Keypoints[j].DistanceTo(s.Frames[i].Keypoints[j])
		}
		vels = append(vels, sum/float64(pose.KeypointCount)/dt)
	}
	if len(vels) == 0 {
		return 0, fmt.Errorf("%w: %w", ErrInsufficientData, ErrZeroTimeSpan)
	}

	normalized := stat.Mean(vels, nil) / cfg.ReferenceVelocity
	score := 1.0 / (1.0 + normalized)
	return math.Max(0, math.Min(1, score)), nil
}
