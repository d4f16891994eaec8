package curve

import (
	"fmt"
	"math"
	"sort"
)

// Keyframe is one sampled point of a channel.
type Keyframe struct {
	Frame float64
	Value float64
}

// KeyframeCurve is an in-memory Curve backed by a sorted keyframe list
// with linear interpolation between keys. It is the adapter used by the
// CLI take format and the test double for the analysis code.
type KeyframeCurve struct {
	id   string
	keys []Keyframe
}

// NewKeyframeCurve creates a curve from keyframes. Keys are copied and
// sorted by frame; the original slice is not retained.
func NewKeyframeCurve(id string, keys []Keyframe) *KeyframeCurve {
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Frame < sorted[j].Frame
	})
	return &KeyframeCurve{id: id, keys: sorted}
}

func (c *KeyframeCurve) ID() string {
	return c.id
}

// Range returns the integer frame domain covered by the keyframes.
func (c *KeyframeCurve) Range() (int, int) {
	if len(c.keys) == 0 {
		return 0, 0
	}
	start := int(math.Floor(c.keys[0].Frame))
	end := int(math.Ceil(c.keys[len(c.keys)-1].Frame))
	return start, end
}

// Evaluate returns the linearly interpolated value at frame.
func (c *KeyframeCurve) Evaluate(frame float64) (float64, error) {
	if len(c.keys) == 0 {
		return 0, fmt.Errorf("curve %s has no keyframes", c.id)
	}
	if math.IsNaN(frame) || math.IsInf(frame, 0) {
		return 0, fmt.Errorf("curve %s: invalid frame %v", c.id, frame)
	}

	first := c.keys[0]
	last := c.keys[len(c.keys)-1]
	if frame < first.Frame || frame > last.Frame {
		return 0, fmt.Errorf("curve %s: frame %.2f outside range [%.1f, %.1f]", c.id, frame, first.Frame, last.Frame)
	}

	// Binary search for the first key at or after frame.
	idx := sort.Search(len(c.keys), func(i int) bool {
		return c.keys[i].Frame >= frame
	})

	if idx < len(c.keys) && c.keys[idx].Frame == frame {
		return c.keys[idx].Value, nil
	}

	prev := c.keys[idx-1]
	next := c.keys[idx]

	span := next.Frame - prev.Frame
	if span == 0 {
		return prev.Value, nil
	}

	t := (frame - prev.Frame) / span
	return prev.Value + (next.Value-prev.Value)*t, nil
}

// Upsert overwrites the keyframe closest to frame if it lies within
// ±0.5 frames, otherwise inserts a new keyframe.
func (c *KeyframeCurve) Upsert(frame, value float64) error {
	if math.IsNaN(frame) || math.IsInf(frame, 0) {
		return fmt.Errorf("curve %s: invalid frame %v", c.id, frame)
	}

	for i := range c.keys {
		if math.Abs(c.keys[i].Frame-frame) < 0.5 {
			c.keys[i].Value = value
			return nil
		}
	}

	idx := sort.Search(len(c.keys), func(i int) bool {
		return c.keys[i].Frame >= frame
	})
	c.keys = append(c.keys, Keyframe{})
	copy(c.keys[idx+1:], c.keys[idx:])
	c.keys[idx] = Keyframe{Frame: frame, Value: value}
	return nil
}

// Keys returns a copy of the keyframe list in frame order.
func (c *KeyframeCurve) Keys() []Keyframe {
	keys := make([]Keyframe, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Len returns the number of keyframes.
func (c *KeyframeCurve) Len() int {
	return len(c.keys)
}
