package blend

import (
	"math"
	"testing"
)

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, t, expected float64
	}{
		{0, 10, 0, 0},
		{0, 10, 1, 10},
		{0, 10, 0.5, 5},
		{-4, 4, 0.25, -2},
		{3, 3, 0.7, 3},
	}
	for _, tt := range tests {
		if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Lerp(%v, %v, %v): expected %v, got %v", tt.a, tt.b, tt.t, tt.expected, got)
		}
	}
}

func TestSmoothLerp(t *testing.T) {
	// Endpoints must match plain Lerp, the midpoint too, and the curve
	// eases so the first quarter advances less than linearly.
	if got := SmoothLerp(0, 10, 0); got != 0 {
		t.Errorf("SmoothLerp at 0: got %v", got)
	}
	if got := SmoothLerp(0, 10, 1); got != 10 {
		t.Errorf("SmoothLerp at 1: got %v", got)
	}
	if got := SmoothLerp(0, 10, 0.5); math.Abs(got-5) > 1e-12 {
		t.Errorf("SmoothLerp at 0.5: expected 5, got %v", got)
	}

	early := SmoothLerp(0, 10, 0.25)
	if early >= Lerp(0, 10, 0.25) {
		t.Errorf("SmoothLerp should ease in: got %v at t=0.25", early)
	}
	// 0.25^2 * (3 - 0.5) = 0.15625
	if math.Abs(early-1.5625) > 1e-9 {
		t.Errorf("SmoothLerp at 0.25: expected 1.5625, got %v", early)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, expected float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.expected {
			t.Errorf("Clamp(%v, %v, %v): expected %v, got %v", tt.v, tt.lo, tt.hi, tt.expected, got)
		}
	}
}
