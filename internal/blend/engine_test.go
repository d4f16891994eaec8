package blend

import (
	"math"
	"testing"

	"github.com/ivlev/adjblend/internal/analyzer"
	"github.com/ivlev/adjblend/internal/curve"
	"github.com/ivlev/adjblend/internal/layers"
)

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

func testEngine() *Engine {
	return NewEngine(analyzer.New(nil))
}

func newLayer(mode layers.BlendMode, source curve.Curve, influence float64) *layers.Layer {
	l := layers.NewLayer("test", mode)
	l.Source = source
	l.Influence = influence
	return l
}

func TestBlendModeArithmetic(t *testing.T) {
	// base=2.0, layer=3.0, checked against the literal mode formulas for
	// influences 0, 0.5 and 1.
	base := constant("base", 0, 10, 2.0)
	source := constant("layer", 0, 10, 3.0)

	tests := []struct {
		mode     layers.BlendMode
		expected [3]float64 // influence 0, 0.5, 1
	}{
		{layers.BlendAdd, [3]float64{2.0, 2.5, 3.0}},
		{layers.BlendSubtract, [3]float64{2.0, 1.5, 1.0}},
		{layers.BlendMultiply, [3]float64{2.0, 4.0, 6.0}}, // 2*(1+(3-1)*t)
		{layers.BlendReplace, [3]float64{2.0, 2.5, 3.0}},
		{layers.BlendScreen, [3]float64{2.0, 0.5, -1.0}}, // 1-(1-2)*(1-3t)
	}

	influences := []float64{0, 0.5, 1}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			for i, influence := range influences {
				engine := testEngine()
				stack := []*layers.Layer{newLayer(tt.mode, source, influence)}

				result := engine.LayeredAdjustments(base, stack, 1.0)
				got := result[5]
				if math.Abs(got-tt.expected[i]) > 1e-9 {
					t.Errorf("%s at influence %.1f: expected %f, got %f",
						tt.mode, influence, tt.expected[i], got)
				}
			}
		})
	}
}

func TestLayeredAdjustmentsEmptyStackIdempotent(t *testing.T) {
	engine := testEngine()
	base := sampled("base", 0, 20, func(f int) float64 { return math.Sin(float64(f) / 3) })

	result := engine.LayeredAdjustments(base, nil, 1.0)

	if len(result) != 21 {
		t.Fatalf("Expected 21 frames, got %d", len(result))
	}
	for f, got := range result {
		expected, err := base.Evaluate(float64(f))
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if got != expected {
			t.Errorf("Frame %d: empty stack changed value %f -> %f", f, expected, got)
		}
	}
}

func TestLayeredAdjustmentsSkipsInactive(t *testing.T) {
	engine := testEngine()
	base := constant("base", 0, 10, 2.0)
	source := constant("layer", 0, 10, 3.0)

	inactive := newLayer(layers.BlendAdd, source, 1.0)
	inactive.Active = false

	hidden := newLayer(layers.BlendAdd, source, 1.0)
	hidden.Visible = false

	sourceless := newLayer(layers.BlendAdd, nil, 1.0)

	result := engine.LayeredAdjustments(base, []*layers.Layer{inactive, hidden, sourceless}, 1.0)
	if result[5] != 2.0 {
		t.Errorf("Inactive layers must not contribute, got %f", result[5])
	}
}

func TestLayeredAdjustmentsFrameBounds(t *testing.T) {
	engine := testEngine()
	base := constant("base", 0, 20, 2.0)
	source := constant("layer", 0, 20, 3.0)

	l := newLayer(layers.BlendAdd, source, 1.0)
	l.FrameStart = 5
	l.FrameEnd = 10

	result := engine.LayeredAdjustments(base, []*layers.Layer{l}, 1.0)

	if result[7] != 3.0 {
		t.Errorf("Expected layer applied inside bounds, got %f", result[7])
	}
	if result[15] != 2.0 {
		t.Errorf("Expected base value outside bounds, got %f", result[15])
	}
}

func TestLayeredAdjustmentsGlobalInfluence(t *testing.T) {
	engine := testEngine()
	base := constant("base", 0, 10, 2.0)
	source := constant("layer", 0, 10, 3.0)

	result := engine.LayeredAdjustments(base, []*layers.Layer{newLayer(layers.BlendAdd, source, 1.0)}, 0.5)
	if math.Abs(result[5]-2.5) > 1e-9 {
		t.Errorf("Global influence 0.5: expected 2.5, got %f", result[5])
	}

	if result := engine.LayeredAdjustments(nil, nil, 1.0); result != nil {
		t.Error("Expected nil result without a base curve")
	}
}

func TestVelocityAwareBlendIdleFrames(t *testing.T) {
	engine := testEngine()

	// A flat base has no movement regions: corrections are damped to
	// the near-zero idle weight everywhere.
	base := constant("base", 0, 10, 1.0)
	adjustment := constant("adj", 0, 10, 2.0)

	result := engine.VelocityAwareBlend(base, adjustment, 1.0, 1.0, nil)

	expected := 1.0 + 1.0*idleWeight
	for f, got := range result {
		if math.Abs(got-expected) > 1e-9 {
			t.Errorf("Frame %d: expected idle-damped %f, got %f", f, expected, got)
		}
	}
}

func TestVelocityAwareBlendEnergeticRegion(t *testing.T) {
	engine := testEngine()

	// Base with a strong sine burst over frames 30-50: peak energy > 2
	// saturates the weight, so the correction lands at full strength
	// inside the region.
	base := sampled("base", 0, 80, func(f int) float64 {
		if f < 30 || f > 50 {
			return 0
		}
		return 10 * math.Sin(2*math.Pi*float64(f-30)/20.0)
	})
	adjustment := sampled("adj", 0, 80, func(f int) float64 {
		v, _ := base.Evaluate(float64(f))
		return v + 1.0
	})

	result := engine.VelocityAwareBlend(base, adjustment, 1.0, 1.0, nil)

	// Inside the region: weight clamps to 1.0 (min(1, peak/2)=1 * FAST
	// multiplier 1.2 clamped), full delta applied.
	baseMid, _ := base.Evaluate(35)
	if got := result[35]; math.Abs(got-(baseMid+1.0)) > 1e-9 {
		t.Errorf("In-region frame 35: expected %f, got %f", baseMid+1.0, got)
	}

	// Far outside the region: idle weight only.
	if got := result[10]; math.Abs(got-idleWeight) > 1e-9 {
		t.Errorf("Idle frame 10: expected %f, got %f", idleWeight, got)
	}
}

func TestVelocityAwareBlendContactDamping(t *testing.T) {
	engine := testEngine()
	base := constant("base", 0, 10, 0)
	adjustment := constant("adj", 0, 10, 1.0)

	contacts := map[int]bool{5: true}
	result := engine.VelocityAwareBlend(base, adjustment, 1.0, 1.0, contacts)

	free := result[3]
	grounded := result[5]
	if math.Abs(grounded-free*contactDamping) > 1e-9 {
		t.Errorf("Contact frame: expected %f, got %f", free*contactDamping, grounded)
	}
}

func TestOverlayModeUsesVelocityAwareBlend(t *testing.T) {
	engine := testEngine()
	base := constant("base", 0, 10, 2.0)
	source := constant("layer", 0, 10, 3.0)

	result := engine.LayeredAdjustments(base, []*layers.Layer{newLayer(layers.BlendOverlay, source, 1.0)}, 1.0)

	// Flat base: the overlay correction is idle-damped, not applied raw.
	expected := 2.0 + 1.0*idleWeight
	if math.Abs(result[5]-expected) > 1e-9 {
		t.Errorf("Overlay on settled motion: expected %f, got %f", expected, result[5])
	}
}

func TestVelocityAwareBlendMissingCurves(t *testing.T) {
	engine := testEngine()
	base := constant("base", 0, 10, 0)

	if result := engine.VelocityAwareBlend(nil, base, 1.0, 1.0, nil); result != nil {
		t.Error("Expected nil without a base curve")
	}
	if result := engine.VelocityAwareBlend(base, nil, 1.0, 1.0, nil); result != nil {
		t.Error("Expected nil without an adjustment curve")
	}
}
