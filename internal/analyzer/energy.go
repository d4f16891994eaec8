package analyzer

import (
	"math"

	"github.com/ivlev/adjblend/internal/curve"
)

// Span is an inclusive frame range restriction.
type Span struct {
	Start int
	End   int
}

// EnergyProfile holds per-frame aggregate motion measurements over a set
// of curves. The slices are parallel: index i describes Frames[i]. The
// profile is a reporting artifact; nothing downstream consumes it.
type EnergyProfile struct {
	Frames       []int
	Kinetic      []float64 // sum of velocity^2 across all curves
	Potential    []float64 // sum of max(0, height) across vertical curves
	Total        []float64
	Velocity     []float64 // sum of |velocity|
	Acceleration []float64 // sum of |acceleration|
}

// Len returns the number of profiled frames.
func (p *EnergyProfile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Frames)
}

// PeakTotal returns the highest total energy and the frame it occurs at.
func (p *EnergyProfile) PeakTotal() (frame int, energy float64) {
	if p.Len() == 0 {
		return 0, 0
	}
	frame = p.Frames[0]
	for i, e := range p.Total {
		if e > energy {
			energy = e
			frame = p.Frames[i]
		}
	}
	return frame, energy
}

// CalculateEnergyProfile aggregates kinetic and potential proxies per
// frame across curves. Curves are assumed to follow the x/y/z triple
// grouping, so every third curve (index%3 == 2) is treated as a vertical
// channel for the potential term. span restricts the frame range; nil
// spans the union of all curve ranges. Returns nil when no curves are
// supplied.
func (a *Analyzer) CalculateEnergyProfile(curves []curve.Curve, span *Span) *EnergyProfile {
	if len(curves) == 0 {
		return nil
	}

	start, end, ok := profileRange(curves, span)
	if !ok {
		return nil
	}

	count := end - start + 1
	profile := &EnergyProfile{
		Frames:       make([]int, 0, count),
		Kinetic:      make([]float64, 0, count),
		Potential:    make([]float64, 0, count),
		Total:        make([]float64, 0, count),
		Velocity:     make([]float64, 0, count),
		Acceleration: make([]float64, 0, count),
	}

	for f := start; f <= end; f++ {
		kinetic := 0.0
		potential := 0.0
		velocitySum := 0.0
		accelerationSum := 0.0

		for i, c := range curves {
			v := a.Velocity(c, float64(f), 0)
			acc := a.Acceleration(c, float64(f), 0)

			kinetic += v * v
			velocitySum += math.Abs(v)
			accelerationSum += math.Abs(acc)

			if i%3 == 2 {
				if h, err := c.Evaluate(float64(f)); err == nil && h > 0 {
					potential += h
				}
			}
		}

		profile.Frames = append(profile.Frames, f)
		profile.Kinetic = append(profile.Kinetic, kinetic)
		profile.Potential = append(profile.Potential, potential)
		profile.Total = append(profile.Total, kinetic+potential)
		profile.Velocity = append(profile.Velocity, velocitySum)
		profile.Acceleration = append(profile.Acceleration, accelerationSum)
	}

	return profile
}

func profileRange(curves []curve.Curve, span *Span) (start, end int, ok bool) {
	if span != nil {
		if span.End < span.Start {
			return 0, 0, false
		}
		return span.Start, span.End, true
	}

	first := true
	for _, c := range curves {
		if c == nil {
			continue
		}
		s, e := c.Range()
		if first {
			start, end = s, e
			first = false
			continue
		}
		if s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	if first || end < start {
		return 0, 0, false
	}
	return start, end, true
}
