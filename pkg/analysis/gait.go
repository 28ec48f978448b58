package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/neuromotionlabs/kinemetry/pkg/pose"
)

// GaitMetrics are the walking-pattern features extracted from one session.
type GaitMetrics struct {
	// StrideLength is the mean 3D ankle travel between consecutive heel
	// strikes of the same leg, in normalized image units. Zero when fewer
	// than two strikes were detected on either leg.
	StrideLength float64 `json:"stride_length"`

	// Cadence is heel strikes per minute, counted across both legs.
	Cadence float64 `json:"cadence"`

	// Symmetry compares total left and right ankle travel on [0, 1], where
	// 1 is perfectly symmetric. A motionless session is reported as 1.
	Symmetry float64 `json:"symmetry"`

	// HeelStrikes is the total strike count across both legs.
	HeelStrikes int `json:"heel_strikes"`

	// StridePairs is the number of same-leg strike pairs the stride
	// estimate averages over.
	StridePairs int `json:"stride_pairs"`
}

// AnalyzeGait extracts stride length, cadence, and symmetry from the ankle
// trajectories. Heel strikes are local maxima of the vertical ankle
// coordinate, which in image coordinates grows downward, so a maximum is the
// foot at its lowest point.
//
// A session in which no strikes are detected is not an error: a motionless
// patient legitimately produces zero cadence, zero stride, and symmetry 1.
func AnalyzeGait(s *pose.Session, cfg GaitConfig) (GaitMetrics, error) {
	if n := len(s.Frames); n < cfg.MinFrames {
		return GaitMetrics{}, fmt.Errorf("%w: %w (need %d frames, got %d)",
			ErrInsufficientData, ErrTooFewFrames, cfg.MinFrames, n)
	}
	if s.VideoDuration <= 0 {
		return GaitMetrics{}, fmt.Errorf("%w: %w", ErrInsufficientData, ErrZeroDuration)
	}
	if mc := s.MeanConfidence(); mc < cfg.MinConfidence {
		return GaitMetrics{}, fmt.Errorf("%w: %w (mean %.3f, need %.3f)",
			ErrInsufficientData, ErrLowConfidence, mc, cfg.MinConfidence)
	}

	leftStrikes := heelStrikes(ankleHeights(s, pose.LeftAnkle), cfg.MinPeakDistance, cfg.MinPeakExcursion)
	rightStrikes := heelStrikes(ankleHeights(s, pose.RightAnkle), cfg.MinPeakDistance, cfg.MinPeakExcursion)

	strides := strideSamples(s, pose.LeftAnkle, leftStrikes)
	strides = append(strides, strideSamples(s, pose.RightAnkle, rightStrikes)...)

	m := GaitMetrics{
		HeelStrikes: len(leftStrikes) + len(rightStrikes),
		StridePairs: len(strides),
		Symmetry:    symmetryRatio(ankleTravel(s, pose.LeftAnkle), ankleTravel(s, pose.RightAnkle)),
	}
	if len(strides) > 0 {
		m.StrideLength = stat.Mean(strides, nil)
	}
	m.Cadence = float64(m.HeelStrikes) * 60.0 / s.VideoDuration
	return m, nil
}

// heelStrikes finds local maxima that rise at least minExcursion above the
// series mean, keeping the taller peak whenever two candidates fall within
// minDistance frames of each other.
func heelStrikes(series []float64, minDistance int, minExcursion float64) []int {
	if len(series) < 3 {
		return nil
	}
	threshold := stat.Mean(series, nil) + minExcursion

	var candidates []int
	for i := 1; i < len(series)-1; i++ {
		// A plateau counts once, at its leading edge.
		if series[i] >= threshold && series[i] > series[i-1] && series[i] >= series[i+1] {
			candidates = append(candidates, i)
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return series[candidates[a]] > series[candidates[b]]
	})
	kept := make([]int, 0, len(candidates))
	for _, c := range candidates {
		tooClose := false
		for _, k := range kept {
			if d := c - k; -minDistance < d && d < minDistance {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, c)
		}
	}
	sort.Ints(kept)
	return kept
}

// strideSamples measures the 3D ankle displacement between consecutive heel
// strikes of one leg.
func strideSamples(s *pose.Session, ankle pose.Landmark, strikes []int) []float64 {
	if len(strikes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(strikes)-1)
	for i := 1; i < len(strikes); i++ {
		a := s.Frames[strikes[i-1]].Point(ankle)
		b := s.Frames[strikes[i]].Point(ankle)
		out = append(out, a.DistanceTo(b))
	}
	return out
}

// ankleHeights extracts the vertical coordinate series for one ankle.
func ankleHeights(s *pose.Session, ankle pose.Landmark) []float64 {
	out := make([]float64, len(s.Frames))
	for i := range s.Frames {
		out[i] = s.Frames[i].Point(ankle).Y
	}
	return out
}

// ankleTravel sums the frame-to-frame 3D displacement of one ankle across
// the whole session.
func ankleTravel(s *pose.Session, ankle pose.Landmark) float64 {
	var total float64
	for i := 1; i < len(s.Frames); i++ {
		total += s.Frames[i-1].Point(ankle).DistanceTo(s.Frames[i].Point(ankle))
	}
	return total
}

// symmetryRatio maps two total-travel measurements to [0, 1], where 1 means
// both legs moved the same amount. Two motionless legs are symmetric.
func symmetryRatio(left, right float64) float64 {
	m := math.Max(left, right)
	if m == 0 {
		return 1.0
	}
	return 1.0 - math.Abs(left-right)/m
}
