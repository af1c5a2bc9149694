package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mass != 1.0 {
		t.Errorf("expected default mass 1.0, got %f", cfg.Mass)
	}
	if cfg.Samples != 600 {
		t.Errorf("expected 600 samples, got %d", cfg.Samples)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if _, err := cfg.Parameters(); err != nil {
		t.Errorf("default config should yield valid parameters: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oscillab.yaml")

	cfg := DefaultConfig()
	cfg.Damping = 0.3
	cfg.Duration = 25

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Damping != 0.3 || loaded.Duration != 25 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("damping: 2.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Damping != 2.0 {
		t.Errorf("expected damping 2.0, got %f", cfg.Damping)
	}
	if cfg.Stiffness != DefaultStiffness {
		t.Errorf("unset fields should keep defaults, got stiffness %f", cfg.Stiffness)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("critical")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	p, err := cfg.Parameters()
	if err != nil {
		t.Fatalf("preset parameters: %v", err)
	}
	if p.Classify() != oscillator.CriticallyDamped {
		t.Errorf("critical preset should be critically damped, got %v", p.Classify())
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("gentle")
	a.Damping = 99
	b := GetPreset("gentle")
	if b.Damping == 99 {
		t.Error("GetPreset should return a copy")
	}
}

func TestPresetsCoverAllRegimes(t *testing.T) {
	seen := map[oscillator.Regime]bool{}
	for _, name := range ListPresets() {
		p, err := GetPreset(name).Parameters()
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		seen[p.Classify()] = true
	}
	for _, r := range []oscillator.Regime{
		oscillator.Underdamped, oscillator.CriticallyDamped, oscillator.Overdamped,
	} {
		if !seen[r] {
			t.Errorf("no preset covers regime %v", r)
		}
	}
}

func TestClampField(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"mass", 0.01, 0.1},
		{"mass", 50, 10},
		{"damping", -1, 0},
		{"x0", 5, 5},
		{"unknown", 1234, 1234},
	}
	for _, tt := range tests {
		if got := ClampField(tt.name, tt.in); got != tt.want {
			t.Errorf("ClampField(%s, %g) = %g, want %g", tt.name, tt.in, got, tt.want)
		}
	}
}
