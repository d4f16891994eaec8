// Package analyzer computes motion characteristics of animation curves:
// velocities, movement regions, ground-contact phases, foot sliding and
// energy profiles. All numeric entry points fail soft: a curve that
// cannot be evaluated contributes zeros instead of aborting a batch.
package analyzer

import (
	"math"

	"github.com/ivlev/adjblend/internal/cache"
	"github.com/ivlev/adjblend/internal/curve"
)

// Default analysis parameters. Callers pass zero values to use these.
const (
	DefaultWindow             = 2
	DefaultVelocityThreshold  = 0.1
	DefaultMinRegionDuration  = 3
	DefaultGroundThreshold    = 0.05
	DefaultStabilityThreshold = 0.02
	DefaultSensitivity        = 1.0
)

// Analyzer computes motion analysis over Curve values. The cache is
// injected by the owner of the analysis session; a nil cache disables
// memoization entirely.
type Analyzer struct {
	Cache *cache.AnalysisCache
}

// New creates an Analyzer with the given cache. cache may be nil.
func New(c *cache.AnalysisCache) *Analyzer {
	return &Analyzer{Cache: c}
}

// Velocity estimates the first derivative at frame using a central
// difference over ±window frames, degrading to a forward difference near
// the start of the range and a backward difference near the end. Any
// evaluation failure yields 0.0: analysis of a batch must never abort
// because one curve is malformed.
func (a *Analyzer) Velocity(c curve.Curve, frame float64, window int) float64 {
	if c == nil {
		return 0
	}
	if window <= 0 {
		window = DefaultWindow
	}
	w := float64(window)

	start, end := c.Range()
	lo, hi := float64(start), float64(end)

	eval := func(f float64) (float64, bool) {
		v, err := c.Evaluate(f)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}

	switch {
	case frame-w >= lo && frame+w <= hi:
		// Central difference
		next, okN := eval(frame + w)
		prev, okP := eval(frame - w)
		if !okN || !okP {
			return 0
		}
		return (next - prev) / (2 * w)

	case frame+w <= hi && frame >= lo:
		// Forward difference near the start
		next, okN := eval(frame + w)
		here, okH := eval(frame)
		if !okN || !okH {
			return 0
		}
		return (next - here) / w

	case frame-w >= lo && frame <= hi:
		// Backward difference near the end
		here, okH := eval(frame)
		prev, okP := eval(frame - w)
		if !okH || !okP {
			return 0
		}
		return (here - prev) / w
	}

	// Frame too far outside the curve's range (or the range is shorter
	// than the window): nothing meaningful to estimate.
	return 0
}

// Acceleration estimates the second derivative at frame as the
// derivative of Velocity, using the same window and edge fallbacks.
// Shares the fail-soft policy of Velocity.
func (a *Analyzer) Acceleration(c curve.Curve, frame float64, window int) float64 {
	if c == nil {
		return 0
	}
	if window <= 0 {
		window = DefaultWindow
	}
	w := float64(window)

	if math.IsNaN(frame) || math.IsInf(frame, 0) {
		return 0
	}

	start, end := c.Range()
	lo, hi := float64(start), float64(end)

	switch {
	case frame-w >= lo && frame+w <= hi:
		vNext := a.Velocity(c, frame+w, window)
		vPrev := a.Velocity(c, frame-w, window)
		return (vNext - vPrev) / (2 * w)

	case frame+w <= hi && frame >= lo:
		vNext := a.Velocity(c, frame+w, window)
		vHere := a.Velocity(c, frame, window)
		return (vNext - vHere) / w

	case frame-w >= lo && frame <= hi:
		vHere := a.Velocity(c, frame, window)
		vPrev := a.Velocity(c, frame-w, window)
		return (vHere - vPrev) / w
	}

	return 0
}

// energyAt combines velocity and acceleration magnitudes into the
// movement-significance scalar used for region detection. Not physical
// energy; the acceleration term is half-weighted so jitter does not
// dominate sustained motion.
func (a *Analyzer) energyAt(c curve.Curve, frame float64) (energy, velocity float64) {
	v := a.Velocity(c, frame, 0)
	acc := a.Acceleration(c, frame, 0)
	return math.Abs(v) + 0.5*math.Abs(acc), v
}
