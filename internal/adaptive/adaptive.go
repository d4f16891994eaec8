// Package adaptive drives constraint-space switching for grounded feet.
// The embedding application calls Update once per frame, synchronously;
// nothing here registers into a host event system or touches rig data.
package adaptive

import (
	"math"

	"github.com/ivlev/adjblend/internal/analyzer"
)

// Influences is the world/local constraint split for one tick. The two
// values always sum to 1.
type Influences struct {
	World float64 // pin-to-world strength while grounded
	Local float64 // normal FK/IK behavior strength
}

// DefaultBlendSpeed is the per-tick exponential smoothing factor for the
// contact flag. 0.3 follows the original tuning; treat it as a starting
// point rather than a calibrated constant.
const DefaultBlendSpeed = 0.3

// ContactTracker answers per-frame contact queries from precomputed
// contact phases, replacing per-frame scene sampling.
type ContactTracker struct {
	phases []analyzer.ContactPhase
}

// NewContactTracker wraps detected contact phases.
func NewContactTracker(phases []analyzer.ContactPhase) *ContactTracker {
	return &ContactTracker{phases: phases}
}

// InContact reports whether frame falls inside any contact phase.
func (t *ContactTracker) InContact(frame int) bool {
	for _, p := range t.phases {
		if p.Contains(frame) {
			return true
		}
	}
	return false
}

// SpaceBlender smooths the binary contact flag into a continuous
// world/local influence split so constraint switches never pop.
type SpaceBlender struct {
	Tracker    *ContactTracker
	BlendSpeed float64

	value float64
}

// NewSpaceBlender creates a blender over a tracker with the default
// blend speed.
func NewSpaceBlender(tracker *ContactTracker) *SpaceBlender {
	return &SpaceBlender{Tracker: tracker, BlendSpeed: DefaultBlendSpeed}
}

// Update advances the smoothed contact value for one frame and returns
// the resulting influence split. Repeated calls while grounded converge
// exponentially toward full world-space influence.
func (b *SpaceBlender) Update(frame int) Influences {
	target := 0.0
	if b.Tracker != nil && b.Tracker.InContact(frame) {
		target = 1.0
	}

	speed := b.BlendSpeed
	if speed <= 0 {
		speed = DefaultBlendSpeed
	}

	b.value += (target - b.value) * speed
	return Influences{World: b.value, Local: 1 - b.value}
}

// Reset snaps the smoothed value back to fully local.
func (b *SpaceBlender) Reset() {
	b.value = 0
}

// SettleFrames scans a fresh blender across start..end and reports, per
// contact phase, the frame at which the world influence first reached
// threshold. A phase that the foot leaves before the ramp settles
// reports -1.
func SettleFrames(phases []analyzer.ContactPhase, start, end int, blendSpeed, threshold float64) []int {
	settled := make([]int, len(phases))
	for i := range settled {
		settled[i] = -1
	}

	blender := NewSpaceBlender(NewContactTracker(phases))
	if blendSpeed > 0 {
		blender.BlendSpeed = blendSpeed
	}

	for f := start; f <= end; f++ {
		inf := blender.Update(f)
		if inf.World < threshold {
			continue
		}
		for i, p := range phases {
			if settled[i] == -1 && p.Contains(f) {
				settled[i] = f
			}
		}
	}

	return settled
}

// RootMotionDetector reports when the character root has displaced
// beyond a threshold since the last observation, signaling that pinned
// feet need re-targeting.
type RootMotionDetector struct {
	Threshold float64 // minimum displacement magnitude, default 0.01

	previous    [3]float64
	hasPrevious bool
}

// DefaultMotionThreshold is the displacement below which root jitter is
// ignored.
const DefaultMotionThreshold = 0.01

// NewRootMotionDetector creates a detector with the default threshold.
func NewRootMotionDetector() *RootMotionDetector {
	return &RootMotionDetector{Threshold: DefaultMotionThreshold}
}

// Observe records the root position for this tick. It returns whether
// the root moved significantly since the previous observation and the
// displacement delta. The first observation only seeds the baseline.
func (d *RootMotionDetector) Observe(position [3]float64) (moved bool, delta [3]float64) {
	if !d.hasPrevious {
		d.previous = position
		d.hasPrevious = true
		return false, delta
	}

	for i := range delta {
		delta[i] = position[i] - d.previous[i]
	}
	magnitude := math.Sqrt(delta[0]*delta[0] + delta[1]*delta[1] + delta[2]*delta[2])

	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}

	if magnitude > threshold {
		d.previous = position
		return true, delta
	}
	return false, delta
}

// Reset clears the motion baseline.
func (d *RootMotionDetector) Reset() {
	d.hasPrevious = false
}

// Travel counts how many of the supplied per-frame positions displaced
// the root beyond the threshold. The baseline is reset first, so the
// count is a property of the position sequence alone.
func (d *RootMotionDetector) Travel(positions [][3]float64) int {
	d.Reset()
	count := 0
	for _, p := range positions {
		if moved, _ := d.Observe(p); moved {
			count++
		}
	}
	return count
}
