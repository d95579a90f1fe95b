package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Fn == "" {
		t.Error("expected a default integrand")
	}
	if cfg.Dim < 1 {
		t.Error("dim should be positive")
	}
	if cfg.N < 1 {
		t.Error("n should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dim", Config{Dim: 0, N: 100, Trials: 1}},
		{"zero n", Config{Dim: 1, N: 0, Trials: 1}},
		{"zero trials", Config{Dim: 1, N: 100, Trials: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := &Config{
		Fn: "ball", Dim: 3, N: 5000, Seed: seed(9),
		Backend: "graph", Domain: [][]float64{{-1, 1}, {-1, 1}, {-1, 1}},
		Trials: 3, JIT: true,
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Fn != cfg.Fn || got.Dim != cfg.Dim || got.N != cfg.N || !got.JIT {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.Seed == nil || *got.Seed != 9 {
		t.Errorf("seed did not survive roundtrip: %v", got.Seed)
	}
	if len(got.Domain) != 3 {
		t.Errorf("domain did not survive roundtrip: %v", got.Domain)
	}
}

func TestGetPreset(t *testing.T) {
	if cfg := GetPreset("quick"); cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if len(ListPresets()) == 0 {
		t.Error("expected presets")
	}
}

func TestPresetsValidate(t *testing.T) {
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
