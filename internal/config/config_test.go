package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/planetsim/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "heun" {
		t.Errorf("expected integrator heun, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Physics.G != sim.DefaultG || cfg.Physics.Capacity != sim.DefaultCapacity {
		t.Errorf("physics defaults not taken from sim: %+v", cfg.Physics)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"NaN dt", func(c *Config) { c.Dt = math.NaN() }},
		{"infinite dt", func(c *Config) { c.Dt = math.Inf(1) }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"unknown integrator", func(c *Config) { c.Integrator = "rk45" }},
		{"primary out of range", func(c *Config) { c.AutoOrbit = true; c.Primary = 3 }},
		{"bad colour", func(c *Config) { c.Bodies = []BodyConfig{{Mass: 1, Color: "red"}} }},
		{"negative retries", func(c *Config) { c.MaxRetries = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("two_body")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 2 || cfg.Bodies[0].Mass != 1000 {
		t.Errorf("unexpected bodies: %+v", cfg.Bodies)
	}

	cfg.Bodies[0].Mass = 1
	if Presets["two_body"].Bodies[0].Mass != 1000 {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			s, err := GetPreset(name).Build()
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if s.Len() != len(Presets[name].Bodies) {
				t.Errorf("built %d bodies, want %d", s.Len(), len(Presets[name].Bodies))
			}
			if err := s.Step(Presets[name].Dt); err != nil {
				t.Errorf("first step failed: %v", err)
			}
		})
	}
}

func TestBuildSeedsOrbit(t *testing.T) {
	s, err := GetPreset("two_body").Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Phase() != sim.Seeded {
		t.Errorf("phase = %s, want seeded", s.Phase())
	}
	if v := s.Bodies()[1].Velocity; v.Y <= 0 {
		t.Errorf("planet not seeded: %+v", v)
	}
}

func TestBuildRejectsBadBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{{Mass: -1}}
	if _, err := cfg.Build(); !errors.Is(err, sim.ErrConfiguration) {
		t.Errorf("expected sim.ErrConfiguration, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	want := GetPreset("inner_system")
	want.MaxRetries = 3

	if err := Save(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got.Name != want.Name || got.MaxRetries != 3 || len(got.Bodies) != len(want.Bodies) {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Bodies[2] != want.Bodies[2] {
		t.Errorf("body mismatch: %+v vs %+v", got.Bodies[2], want.Bodies[2])
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("name: tiny\nbodies:\n  - mass: 5\n    position: [1, 2, 3]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != DefaultDt || cfg.Integrator != DefaultIntegrator || cfg.Physics.G != sim.DefaultG {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Bodies[0].Position != [3]float64{1, 2, 3} {
		t.Errorf("position = %v", cfg.Bodies[0].Position)
	}
}

func TestBodyName(t *testing.T) {
	cfg := GetPreset("two_body")
	if cfg.BodyName(0) != "sun" || cfg.BodyName(7) != "#7" {
		t.Errorf("unexpected names %q %q", cfg.BodyName(0), cfg.BodyName(7))
	}
}
