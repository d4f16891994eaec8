// Package blend applies adjustment layers onto base animation curves.
// Corrections are scaled by local motion energy so frames that are
// already settled stay nearly untouched.
package blend

import (
	"math"

	"github.com/ivlev/adjblend/internal/analyzer"
	"github.com/ivlev/adjblend/internal/curve"
	"github.com/ivlev/adjblend/internal/layers"
)

// Engine computes velocity-aware single-layer blends and multi-layer
// stacked blends. Each call is a pure function of its inputs plus the
// analyzer's cache; the engine keeps no per-call state.
type Engine struct {
	Analyzer *analyzer.Analyzer

	// Region detection parameters for the energy-preserving weight.
	VelocityThreshold float64
	MinRegionDuration int

	// EnergyPreservation scales how strongly region energy gates a
	// correction. 1.0 is the authored behavior.
	EnergyPreservation float64

	// ContactFrames marks grounded frames of the entity being blended.
	// Layers with PreserveContacts damp their corrections on these
	// frames. Supplied by the caller; may be nil.
	ContactFrames map[int]bool
}

// NewEngine creates an engine with default blend parameters.
func NewEngine(a *analyzer.Analyzer) *Engine {
	return &Engine{
		Analyzer:           a,
		VelocityThreshold:  analyzer.DefaultVelocityThreshold,
		MinRegionDuration:  analyzer.DefaultMinRegionDuration,
		EnergyPreservation: 1.0,
	}
}

// motionTypeMultiplier weights a correction by the character of the
// motion it lands in. Fast bursts can absorb slightly exaggerated
// corrections; slow regions get them damped.
func motionTypeMultiplier(t analyzer.MotionType) float64 {
	switch t {
	case analyzer.MotionFast:
		return 1.2
	case analyzer.MotionSustained:
		return 1.0
	case analyzer.MotionQuick:
		return 0.9
	case analyzer.MotionSmooth:
		return 0.8
	case analyzer.MotionSlow:
		return 0.6
	default:
		return 1.0
	}
}

// Weight applied to frames outside every movement region. Near zero so
// subtle already-correct motion is preserved.
const idleWeight = 0.05

// Damping applied on grounded frames when contact preservation is on.
const contactDamping = 0.1

// VelocityAwareBlend computes corrected values over the union range of
// base and adjustment. Each frame's delta is scaled by a weight derived
// from the movement region containing it:
//
//	weight = clamp(min(1, peak/2) * typeMultiplier * energyPreservation, 0.1, 1.0)
//
// Frames outside any region get idleWeight; contact frames are damped
// further. Frames where either curve fails to evaluate are omitted from
// the result. Returns nil if either curve is missing.
func (e *Engine) VelocityAwareBlend(base, adjustment curve.Curve, influence, energyPreservation float64, contactFrames map[int]bool) map[int]float64 {
	if base == nil || adjustment == nil {
		return nil
	}

	baseStart, baseEnd := base.Range()
	adjStart, adjEnd := adjustment.Range()
	start := baseStart
	if adjStart < start {
		start = adjStart
	}
	end := baseEnd
	if adjEnd > end {
		end = adjEnd
	}

	regions := e.Analyzer.DetectMovementRegions(base, e.VelocityThreshold, e.MinRegionDuration)

	result := make(map[int]float64, end-start+1)
	for f := start; f <= end; f++ {
		baseValue, errBase := base.Evaluate(float64(f))
		adjValue, errAdj := adjustment.Evaluate(float64(f))
		if errBase != nil || errAdj != nil {
			continue
		}

		delta := adjValue - baseValue

		weight := idleWeight
		if region, ok := analyzer.RegionAt(regions, f); ok {
			energyFactor := math.Min(1.0, region.PeakEnergy/2.0)
			weight = Clamp(energyFactor*motionTypeMultiplier(region.Type)*energyPreservation, 0.1, 1.0)
		}

		if contactFrames[f] {
			weight *= contactDamping
		}

		result[f] = baseValue + delta*weight*influence
	}

	return result
}

// LayeredAdjustments folds an ordered layer stack over the base curve's
// range. Layers are applied bottom to top; inactive, hidden or
// source-less layers are skipped, as are layers whose frame bounds
// exclude the current frame. Effective influence per layer is
// layer.Influence * globalInfluence. With no applicable layers the base
// curve's own values come back unchanged. Returns nil without a base.
func (e *Engine) LayeredAdjustments(base curve.Curve, stack []*layers.Layer, globalInfluence float64) map[int]float64 {
	if base == nil {
		return nil
	}

	start, end := base.Range()

	// OVERLAY layers replace the running value with an energy-preserving
	// blend of base against the layer source, computed once per layer.
	overlays := make(map[int]map[int]float64)
	for i, l := range stack {
		if l.Applicable() && l.Mode == layers.BlendOverlay {
			contacts := e.ContactFrames
			if !l.PreserveContacts {
				contacts = nil
			}
			overlays[i] = e.VelocityAwareBlend(base, l.Source, l.Influence*globalInfluence, e.EnergyPreservation, contacts)
		}
	}

	result := make(map[int]float64, end-start+1)
	for f := start; f <= end; f++ {
		baseValue, err := base.Evaluate(float64(f))
		if err != nil {
			continue
		}

		current := baseValue
		for i, l := range stack {
			if !l.Applicable() || !l.Covers(f) {
				continue
			}

			effective := l.Influence * globalInfluence

			if l.Mode == layers.BlendOverlay {
				if blended, ok := overlays[i][f]; ok {
					current = blended
				}
				continue
			}

			layerValue, err := l.Source.Evaluate(float64(f))
			if err != nil {
				continue
			}

			switch l.Mode {
			case layers.BlendAdd:
				current += (layerValue - baseValue) * effective
			case layers.BlendSubtract:
				current -= (layerValue - baseValue) * effective
			case layers.BlendMultiply:
				current *= 1 + (layerValue-1)*effective
			case layers.BlendReplace:
				current = Lerp(current, layerValue, effective)
			case layers.BlendScreen:
				current = 1 - (1-current)*(1-layerValue*effective)
			}
		}

		result[f] = current
	}

	return result
}
