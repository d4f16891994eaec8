// Package layers holds the adjustment-layer data model: an ordered stack
// of named corrections the blending engine folds onto a base curve.
package layers

import (
	"fmt"
	"strings"

	"github.com/ivlev/adjblend/internal/curve"
)

// BlendMode selects how a layer's values combine with the accumulated
// result underneath it.
type BlendMode string

const (
	BlendOverlay  BlendMode = "OVERLAY" // energy-preserving velocity-aware blend
	BlendAdd      BlendMode = "ADD"
	BlendSubtract BlendMode = "SUBTRACT"
	BlendMultiply BlendMode = "MULTIPLY"
	BlendReplace  BlendMode = "REPLACE"
	BlendScreen   BlendMode = "SCREEN"
)

// LayerType describes what kind of correction a layer carries.
type LayerType string

const (
	TypeAdjustment LayerType = "ADJUSTMENT" // general corrective pass
	TypeContactFix LayerType = "CONTACT_FIX"
	TypePolish     LayerType = "POLISH" // final subtle cleanup
)

// ParseBlendMode resolves a mode name, case-insensitively.
func ParseBlendMode(name string) (BlendMode, error) {
	switch BlendMode(strings.ToUpper(name)) {
	case BlendOverlay, "":
		return BlendOverlay, nil
	case BlendAdd:
		return BlendAdd, nil
	case BlendSubtract:
		return BlendSubtract, nil
	case BlendMultiply:
		return BlendMultiply, nil
	case BlendReplace:
		return BlendReplace, nil
	case BlendScreen:
		return BlendScreen, nil
	default:
		return "", fmt.Errorf("unknown blend mode: %s", name)
	}
}

// ParseLayerType resolves a layer type name, case-insensitively.
func ParseLayerType(name string) (LayerType, error) {
	switch LayerType(strings.ToUpper(name)) {
	case TypeAdjustment, "":
		return TypeAdjustment, nil
	case TypeContactFix:
		return TypeContactFix, nil
	case TypePolish:
		return TypePolish, nil
	default:
		return "", fmt.Errorf("unknown layer type: %s", name)
	}
}

// Layer is one ordered adjustment in a stack. Influence runs 0-2 so a
// correction can be exaggerated past its authored strength. Frame bounds
// apply only when FrameEnd > FrameStart; otherwise the layer covers the
// whole base range.
type Layer struct {
	Name                string    `yaml:"name"`
	Type                LayerType `yaml:"type"`
	Mode                BlendMode `yaml:"mode"`
	Influence           float64   `yaml:"influence"`
	Active              bool      `yaml:"active"`
	Visible             bool      `yaml:"visible"`
	FrameStart          int       `yaml:"frame_start"`
	FrameEnd            int       `yaml:"frame_end"`
	PreserveContacts    bool      `yaml:"preserve_contacts"`
	EnergyThreshold     float64   `yaml:"energy_threshold"`
	ContactThreshold    float64   `yaml:"contact_threshold"`
	VelocitySensitivity float64   `yaml:"velocity_sensitivity"`
	TargetScope         string    `yaml:"target_scope"`

	// Source supplies the layer's correction values. Not serialized;
	// the embedding environment resolves it via a curve.Table.
	Source curve.Curve `yaml:"-"`
	// SourceRef names the source channel for serialized stacks.
	SourceRef string `yaml:"source_ref,omitempty"`
}

// NewLayer creates a layer with sensible defaults: full influence,
// active, visible, unbounded frame range.
func NewLayer(name string, mode BlendMode) *Layer {
	return &Layer{
		Name:                name,
		Type:                TypeAdjustment,
		Mode:                mode,
		Influence:           1.0,
		Active:              true,
		Visible:             true,
		EnergyThreshold:     DefaultEnergyThreshold,
		ContactThreshold:    DefaultContactThreshold,
		VelocitySensitivity: 1.0,
	}
}

// Layer setting defaults shared with the configuration surface.
const (
	DefaultEnergyThreshold  = 0.1
	DefaultContactThreshold = 0.05
)

// Covers reports whether the layer applies at frame.
func (l *Layer) Covers(frame int) bool {
	if l.FrameEnd <= l.FrameStart {
		return true // unbounded
	}
	return frame >= l.FrameStart && frame <= l.FrameEnd
}

// Applicable reports whether the layer participates in blending at all.
func (l *Layer) Applicable() bool {
	return l != nil && l.Active && l.Visible && l.Source != nil
}

// clone deep-copies the layer.
func (l *Layer) clone() *Layer {
	copied := *l
	return &copied
}
