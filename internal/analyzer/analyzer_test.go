package analyzer

import (
	"math"
	"testing"

	"github.com/ivlev/adjblend/internal/curve"
)

// sampled builds a keyframe curve with one key per integer frame.
func sampled(id string, start, end int, fn func(f int) float64) *curve.KeyframeCurve {
	keys := make([]curve.Keyframe, 0, end-start+1)
	for f := start; f <= end; f++ {
		keys = append(keys, curve.Keyframe{Frame: float64(f), Value: fn(f)})
	}
	return curve.NewKeyframeCurve(id, keys)
}

func constant(id string, start, end int, value float64) *curve.KeyframeCurve {
	return sampled(id, start, end, func(int) float64 { return value })
}

func TestVelocityLinearCurve(t *testing.T) {
	a := New(nil)
	c := sampled("linear", 0, 20, func(f int) float64 { return 2 * float64(f) })

	tests := []struct {
		name  string
		frame float64
	}{
		{"central", 10},
		{"forward edge", 0},
		{"forward edge 1", 1},
		{"backward edge", 20},
		{"backward edge 19", 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := a.Velocity(c, tt.frame, 0)
			if math.Abs(v-2.0) > 1e-9 {
				t.Errorf("Velocity at %.0f: expected 2.0, got %f", tt.frame, v)
			}
		})
	}
}

func TestAccelerationQuadraticCurve(t *testing.T) {
	a := New(nil)
	c := sampled("quadratic", 0, 20, func(f int) float64 { return float64(f) * float64(f) })

	// d²(f²)/df² = 2, exact under central differences at interior frames
	acc := a.Acceleration(c, 10, 0)
	if math.Abs(acc-2.0) > 1e-9 {
		t.Errorf("Acceleration at 10: expected 2.0, got %f", acc)
	}

	// Constant slope has zero acceleration
	linear := sampled("linear", 0, 20, func(f int) float64 { return 3 * float64(f) })
	if acc := a.Acceleration(linear, 10, 0); math.Abs(acc) > 1e-9 {
		t.Errorf("Acceleration of linear curve: expected 0, got %f", acc)
	}
}

func TestVelocityNeverThrows(t *testing.T) {
	a := New(nil)
	c := sampled("short", 0, 10, func(f int) float64 { return float64(f) })

	// Frames far outside the range, NaN and infinities must degrade to
	// a finite value or the 0.0 fallback, never a panic.
	hostile := []float64{-1e9, -100, -1, 11, 100, 1e12, math.NaN(), math.Inf(1), math.Inf(-1)}

	for _, frame := range hostile {
		v := a.Velocity(c, frame, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("Velocity(%v): expected finite value, got %v", frame, v)
		}

		acc := a.Acceleration(c, frame, 0)
		if math.IsNaN(acc) || math.IsInf(acc, 0) {
			t.Errorf("Acceleration(%v): expected finite value, got %v", frame, acc)
		}
	}

	// Nil and empty curves share the fallback.
	if v := a.Velocity(nil, 5, 0); v != 0 {
		t.Errorf("Velocity(nil curve): expected 0, got %f", v)
	}
	empty := curve.NewKeyframeCurve("empty", nil)
	if v := a.Velocity(empty, 5, 0); v != 0 {
		t.Errorf("Velocity(empty curve): expected 0, got %f", v)
	}
}

func TestVelocityFailSoftIsZero(t *testing.T) {
	a := New(nil)
	c := sampled("c", 0, 10, func(f int) float64 { return float64(f) })

	// Far outside the valid range every difference scheme is
	// unavailable: the documented fallback is exactly 0.0.
	if v := a.Velocity(c, 500, 0); v != 0 {
		t.Errorf("Expected 0.0 fallback, got %f", v)
	}
}
