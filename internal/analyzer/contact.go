package analyzer

import (
	"math"
	"sort"

	"github.com/ivlev/adjblend/internal/curve"
)

// ContactPhase is an inclusive frame range where a tracked point is
// classified as grounded. Phases shorter than minContactFrames are
// discarded during detection.
type ContactPhase struct {
	Start int
	End   int
}

// Duration returns the phase length in frames.
func (p ContactPhase) Duration() int {
	return p.End - p.Start + 1
}

// Contains reports whether frame falls inside the phase.
func (p ContactPhase) Contains(frame int) bool {
	return frame >= p.Start && frame <= p.End
}

const minContactFrames = 3

// DetectContactPhases finds grounded frame ranges for a tracked point.
// curves must hold at least the x/y/z triple of the point; the third
// curve is the vertical axis. The ground level adapts to the data: the
// 25th-percentile height over the range plus groundThreshold. Entry
// requires both low height and low vertical velocity; once grounded, the
// state only exits when velocity exceeds 2x the stability threshold or
// height exceeds 1.5x the adaptive threshold (hysteresis keeps brief
// wobbles from splitting a phase). The exit frame still belongs to the
// phase. Returns nil when fewer than 3 curves are supplied.
func (a *Analyzer) DetectContactPhases(curves []curve.Curve, groundThreshold, stabilityThreshold float64) []ContactPhase {
	if len(curves) < 3 {
		return nil
	}
	if groundThreshold <= 0 {
		groundThreshold = DefaultGroundThreshold
	}
	if stabilityThreshold <= 0 {
		stabilityThreshold = DefaultStabilityThreshold
	}

	vertical := curves[2]
	start, end := vertical.Range()
	if end < start {
		return nil
	}

	heights := make([]float64, 0, end-start+1)
	for f := start; f <= end; f++ {
		h, err := vertical.Evaluate(float64(f))
		if err != nil || math.IsNaN(h) {
			h = 0
		}
		heights = append(heights, h)
	}

	groundLevel := percentile25(heights)
	adaptiveThreshold := groundLevel + groundThreshold

	phases := []ContactPhase{}
	inContact := false
	contactStart := 0

	appendPhase := func(phaseEnd int) {
		if phaseEnd-contactStart+1 >= minContactFrames {
			phases = append(phases, ContactPhase{Start: contactStart, End: phaseEnd})
		}
	}

	for i, f := 0, start; f <= end; i, f = i+1, f+1 {
		height := heights[i]
		verticalVelocity := math.Abs(a.Velocity(vertical, float64(f), 0))

		if !inContact {
			if height <= adaptiveThreshold && verticalVelocity < stabilityThreshold {
				inContact = true
				contactStart = f
			}
			continue
		}

		if verticalVelocity > 2*stabilityThreshold || height > 1.5*adaptiveThreshold {
			appendPhase(f)
			inContact = false
		}
	}

	if inContact {
		appendPhase(end)
	}

	return phases
}

// DetectFootSliding reports the frames where a grounded foot drifts
// horizontally. Contact phases are detected with the same ground and
// stability thresholds the caller uses elsewhere, then each phase is
// checked against duration-scaled displacement and velocity budgets;
// exceeding either flags every frame of the phase. Higher sensitivity
// tightens the budgets. Returns nil when fewer than 3 curves are
// supplied.
func (a *Analyzer) DetectFootSliding(curves []curve.Curve, groundThreshold, stabilityThreshold, sensitivity float64) []int {
	if len(curves) < 3 {
		return nil
	}
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}

	phases := a.DetectContactPhases(curves, groundThreshold, stabilityThreshold)
	if len(phases) == 0 {
		return nil
	}

	horizontalX, horizontalY := curves[0], curves[1]

	sample := func(c curve.Curve, f int) float64 {
		v, err := c.Evaluate(float64(f))
		if err != nil || math.IsNaN(v) {
			return 0
		}
		return v
	}

	slidingFrames := []int{}

	for _, phase := range phases {
		totalMovement := 0.0
		peakVelocity := 0.0

		for f := phase.Start; f <= phase.End; f++ {
			if f > phase.Start {
				dx := math.Abs(sample(horizontalX, f) - sample(horizontalX, f-1))
				dy := math.Abs(sample(horizontalY, f) - sample(horizontalY, f-1))
				totalMovement += math.Max(dx, dy)
			}

			vx := math.Abs(a.Velocity(horizontalX, float64(f), 0))
			vy := math.Abs(a.Velocity(horizontalY, float64(f), 0))
			if hv := math.Max(vx, vy); hv > peakVelocity {
				peakVelocity = hv
			}
		}

		duration := float64(phase.Duration())
		movementBudget := (0.02 + 0.005*duration) / sensitivity
		velocityBudget := (0.03 + 0.002*duration) / sensitivity

		if totalMovement > movementBudget || peakVelocity > velocityBudget {
			for f := phase.Start; f <= phase.End; f++ {
				slidingFrames = append(slidingFrames, f)
			}
		}
	}

	return slidingFrames
}

// percentile25 returns the 25th-percentile value of samples. Used as an
// adaptive ground level so animations authored above world origin still
// detect contacts.
func percentile25(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return sorted[len(sorted)/4]
}
