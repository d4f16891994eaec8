package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.VelocityThreshold != 0.1 {
		t.Errorf("VelocityThreshold: expected 0.1, got %f", cfg.VelocityThreshold)
	}
	if cfg.MinRegionDuration != 3 {
		t.Errorf("MinRegionDuration: expected 3, got %d", cfg.MinRegionDuration)
	}
	if cfg.Sensitivity != 1.0 || cfg.Influence != 1.0 {
		t.Errorf("Sensitivity/Influence defaults wrong: %f / %f", cfg.Sensitivity, cfg.Influence)
	}
	if !cfg.PreserveMotionFlow || !cfg.CacheEnabled {
		t.Error("Motion flow preservation and caching should default on")
	}
	if cfg.CacheSize != 0 {
		t.Errorf("CacheSize should default to unbounded, got %d", cfg.CacheSize)
	}
}

func TestForPreset(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, cfg Config)
	}{
		{PresetMocapCleanup, func(t *testing.T, cfg Config) {
			if cfg.Sensitivity != 1.5 || !cfg.PreserveMotionFlow {
				t.Errorf("mocap-cleanup: sensitivity=%f flow=%v", cfg.Sensitivity, cfg.PreserveMotionFlow)
			}
		}},
		{PresetKeyframePolish, func(t *testing.T, cfg Config) {
			if cfg.Influence != 0.7 || cfg.EnergyPreservation != 1.2 {
				t.Errorf("keyframe-polish: influence=%f energy=%f", cfg.Influence, cfg.EnergyPreservation)
			}
		}},
		{PresetProceduralBlend, func(t *testing.T, cfg Config) {
			if cfg.EnergyPreservation != 0.8 || cfg.PreserveMotionFlow {
				t.Errorf("procedural-blend: energy=%f flow=%v", cfg.EnergyPreservation, cfg.PreserveMotionFlow)
			}
		}},
		{PresetContactFix, func(t *testing.T, cfg Config) {
			if cfg.Sensitivity != 2.0 || cfg.GroundThreshold != 0.03 || cfg.StabilityThreshold != 0.015 {
				t.Errorf("contact-fix: sens=%f ground=%f stability=%f",
					cfg.Sensitivity, cfg.GroundThreshold, cfg.StabilityThreshold)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ForPreset(tt.name)
			if err != nil {
				t.Fatalf("ForPreset(%q) failed: %v", tt.name, err)
			}
			tt.check(t, cfg)
		})
	}

	// A preset only shifts its own knobs, the rest stay at defaults.
	cfg, err := ForPreset(PresetKeyframePolish)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinRegionDuration != Default().MinRegionDuration {
		t.Error("Preset changed an unrelated field")
	}

	if _, err := ForPreset("bogus"); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "velocity_threshold: 0.25\ncache_size: 64\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.VelocityThreshold != 0.25 {
		t.Errorf("VelocityThreshold: expected 0.25, got %f", cfg.VelocityThreshold)
	}
	if cfg.CacheSize != 64 {
		t.Errorf("CacheSize: expected 64, got %d", cfg.CacheSize)
	}

	// Unset fields keep their defaults.
	if cfg.Sensitivity != 1.0 || cfg.MinRegionDuration != 3 {
		t.Errorf("Unset fields lost defaults: sens=%f dur=%d", cfg.Sensitivity, cfg.MinRegionDuration)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("velocity_threshold: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Influence = 0.42
	cfg.PreserveMotionFlow = false
	cfg.CacheSize = 128

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Write(cfg, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("Round trip changed config:\nwrote %+v\nread  %+v", cfg, loaded)
	}
}
