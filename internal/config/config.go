package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full tuning surface of the analysis and blending core.
// Validation is deliberately loose: out-of-contract values produce
// deterministic out-of-contract output, and any stricter policy belongs
// to the embedding UI.
type Config struct {
	VelocityThreshold  float64 `yaml:"velocity_threshold"`
	MinRegionDuration  int     `yaml:"min_region_duration"`
	GroundThreshold    float64 `yaml:"ground_threshold"`
	StabilityThreshold float64 `yaml:"stability_threshold"`
	Sensitivity        float64 `yaml:"sensitivity"`
	EnergyPreservation float64 `yaml:"energy_preservation"`
	Influence          float64 `yaml:"influence"`
	PreserveMotionFlow bool    `yaml:"preserve_motion_flow"`
	CacheEnabled       bool    `yaml:"cache_enabled"`
	CacheSize          int     `yaml:"cache_size"` // 0 = unbounded
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		VelocityThreshold:  0.1,
		MinRegionDuration:  3,
		GroundThreshold:    0.05,
		StabilityThreshold: 0.02,
		Sensitivity:        1.0,
		EnergyPreservation: 1.0,
		Influence:          1.0,
		PreserveMotionFlow: true,
		CacheEnabled:       true,
	}
}

// Workflow preset names. Each starts from Default and shifts the knobs
// toward one task.
const (
	PresetMocapCleanup    = "mocap-cleanup"
	PresetKeyframePolish  = "keyframe-polish"
	PresetProceduralBlend = "procedural-blend"
	PresetContactFix      = "contact-fix"
)

// ForPreset returns the configuration for a named workflow preset.
func ForPreset(name string) (Config, error) {
	cfg := Default()
	switch name {
	case PresetMocapCleanup, "":
		// Mocap tracks are dense and noisy: higher sensitivity, keep
		// contacts rigid.
		cfg.Sensitivity = 1.5
		cfg.PreserveMotionFlow = true
	case PresetKeyframePolish:
		// Hand-keyed animation is sparse; gentle influence so posing
		// survives.
		cfg.Influence = 0.7
		cfg.EnergyPreservation = 1.2
	case PresetProceduralBlend:
		cfg.EnergyPreservation = 0.8
		cfg.PreserveMotionFlow = false
	case PresetContactFix:
		cfg.Sensitivity = 2.0
		cfg.GroundThreshold = 0.03
		cfg.StabilityThreshold = 0.015
	default:
		return Config{}, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

// Load reads a configuration file, with unset fields falling back to
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %v", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %v", err)
	}

	return cfg, nil
}

// Write saves the configuration to a YAML file.
func Write(cfg Config, path string) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %v", err)
	}
	return nil
}
