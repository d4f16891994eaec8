package blend

import (
	"math"
	"sort"

	"github.com/ivlev/adjblend/internal/curve"
)

// FixFootSliding pins each sliding phase's horizontal channels toward a
// stable target position. slidingFrames (typically the output of
// analyzer.DetectFootSliding) are grouped into maximal consecutive runs;
// per run and per horizontal channel the target is the median of the
// in-phase samples when preserveMotionFlow is set, otherwise the mean.
// The correction is strongest at the phase center and falls off linearly
// to half strength at the edges, so the foot eases into and out of the
// pinned position. Corrected values are written back through Upsert.
// Returns false when the group is incomplete or no frames were given.
func (e *Engine) FixFootSliding(group curve.Group, slidingFrames []int, influence float64, preserveMotionFlow bool) bool {
	if !group.Complete() || len(slidingFrames) == 0 {
		return false
	}

	wrote := false
	for _, run := range consecutiveRuns(slidingFrames) {
		for _, c := range []curve.Curve{group.X, group.Y} {
			if e.pinPhase(c, run, influence, preserveMotionFlow) {
				wrote = true
			}
		}
	}
	return wrote
}

// pinPhase blends one channel's values inside a run of frames toward the
// phase's stable position.
func (e *Engine) pinPhase(c curve.Curve, run []int, influence float64, preserveMotionFlow bool) bool {
	values := make([]float64, 0, len(run))
	for _, f := range run {
		if v, err := c.Evaluate(float64(f)); err == nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return false
	}

	stable := mean(values)
	if preserveMotionFlow {
		stable = median(values)
	}

	first := run[0]
	last := run[len(run)-1]
	center := float64(first+last) / 2.0
	halfDuration := float64(last-first) / 2.0

	wrote := false
	for _, f := range run {
		value, err := c.Evaluate(float64(f))
		if err != nil {
			continue
		}

		frameInfluence := influence
		if halfDuration > 0 {
			distance := math.Abs(float64(f) - center)
			frameInfluence = influence * (1 - 0.5*distance/halfDuration)
		}

		if err := c.Upsert(float64(f), Lerp(value, stable, frameInfluence)); err == nil {
			wrote = true
		}
	}
	return wrote
}

// consecutiveRuns splits frames into maximal runs of consecutive
// integers. Input order does not matter; duplicates collapse.
func consecutiveRuns(frames []int) [][]int {
	if len(frames) == 0 {
		return nil
	}

	sorted := make([]int, len(frames))
	copy(sorted, frames)
	sort.Ints(sorted)

	runs := [][]int{}
	run := []int{sorted[0]}
	for _, f := range sorted[1:] {
		switch {
		case f == run[len(run)-1]:
			// duplicate
		case f == run[len(run)-1]+1:
			run = append(run, f)
		default:
			runs = append(runs, run)
			run = []int{f}
		}
	}
	runs = append(runs, run)
	return runs
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the middle value, averaging the two central samples for
// even counts.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}
