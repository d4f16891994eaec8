package analyzer

import (
	"fmt"
	"math"

	"github.com/ivlev/adjblend/internal/cache"
	"github.com/ivlev/adjblend/internal/curve"
)

// MotionType classifies the character of a movement region. Types are
// mutually exclusive, decided by peak energy and region duration.
type MotionType string

const (
	MotionFast      MotionType = "FAST"      // high-energy burst
	MotionSustained MotionType = "SUSTAINED" // moderate energy held long
	MotionQuick     MotionType = "QUICK"     // moderate energy, short
	MotionSmooth    MotionType = "SMOOTH"    // low energy, steady travel
	MotionSlow      MotionType = "SLOW"      // barely above threshold
)

// MovementRegion is a contiguous frame range where a curve's motion
// energy stays above the detection threshold. Immutable once returned.
type MovementRegion struct {
	Start       int
	End         int // inclusive
	PeakEnergy  float64
	AvgVelocity float64
	Type        MotionType
}

// Duration returns the region length in frames.
func (r MovementRegion) Duration() int {
	return r.End - r.Start + 1
}

// Contains reports whether frame falls inside the region.
func (r MovementRegion) Contains(frame int) bool {
	return frame >= r.Start && frame <= r.End
}

// DetectMovementRegions scans every integer frame of the curve's range
// and accumulates regions where energy = |v| + 0.5|a| exceeds
// velocityThreshold. Regions shorter than minDuration frames are
// discarded; a region still open at the final frame is closed there.
// Results are memoized per (curve, threshold, minDuration).
func (a *Analyzer) DetectMovementRegions(c curve.Curve, velocityThreshold float64, minDuration int) []MovementRegion {
	if c == nil {
		return nil
	}
	if velocityThreshold <= 0 {
		velocityThreshold = DefaultVelocityThreshold
	}
	if minDuration <= 0 {
		minDuration = DefaultMinRegionDuration
	}

	key := cache.Key{
		CurveID: c.ID(),
		Op:      "movement_regions",
		Params:  fmt.Sprintf("%g:%d", velocityThreshold, minDuration),
	}

	result := a.Cache.GetOrCompute(key, func() interface{} {
		return a.scanMovementRegions(c, velocityThreshold, minDuration)
	})

	regions, _ := result.([]MovementRegion)
	return regions
}

func (a *Analyzer) scanMovementRegions(c curve.Curve, threshold float64, minDuration int) []MovementRegion {
	start, end := c.Range()

	regions := []MovementRegion{}
	inRegion := false
	regionStart := 0
	peak := 0.0
	velocitySum := 0.0
	velocitySamples := 0

	closeRegion := func(regionEnd int) {
		if regionEnd-regionStart+1 < minDuration {
			return
		}
		avg := 0.0
		if velocitySamples > 0 {
			avg = velocitySum / float64(velocitySamples)
		}
		regions = append(regions, MovementRegion{
			Start:       regionStart,
			End:         regionEnd,
			PeakEnergy:  peak,
			AvgVelocity: avg,
			Type:        classifyMotion(peak, avg, regionEnd-regionStart+1),
		})
	}

	for f := start; f <= end; f++ {
		energy, v := a.energyAt(c, float64(f))

		if energy > threshold {
			if !inRegion {
				inRegion = true
				regionStart = f
				peak = 0
				velocitySum = 0
				velocitySamples = 0
			}
			if energy > peak {
				peak = energy
			}
			velocitySum += math.Abs(v)
			velocitySamples++
		} else if inRegion {
			closeRegion(f - 1)
			inRegion = false
		}
	}

	if inRegion {
		closeRegion(end)
	}

	return regions
}

// classifyMotion maps peak energy, average |velocity| and duration to a
// motion type. Thresholds follow the detection design: >2.0 is a fast
// burst, >0.5 splits on duration, the rest on travel speed.
func classifyMotion(peak, avgVelocity float64, duration int) MotionType {
	switch {
	case peak > 2.0:
		return MotionFast
	case peak > 0.5:
		if duration > 20 {
			return MotionSustained
		}
		return MotionQuick
	case avgVelocity > 0.3:
		return MotionSmooth
	default:
		return MotionSlow
	}
}

// RegionAt returns the region containing frame, if any.
func RegionAt(regions []MovementRegion, frame int) (MovementRegion, bool) {
	for _, r := range regions {
		if r.Contains(frame) {
			return r, true
		}
	}
	return MovementRegion{}, false
}
