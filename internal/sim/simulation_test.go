package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/planetsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative G", func(c *Config) { c.G = -1 }},
		{"NaN G", func(c *Config) { c.G = math.NaN() }},
		{"negative min distance", func(c *Config) { c.MinDistance = -0.1 }},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }},
		{"zero axis", func(c *Config) { c.ReferenceAxis = r3.Vec{} }},
		{"negative epsilon", func(c *Config) { c.CollisionEpsilon = -1 }},
		{"NaN epsilon", func(c *Config) { c.CollisionEpsilon = math.NaN() }},
		{"infinite epsilon", func(c *Config) { c.CollisionEpsilon = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestAddBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 2
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	h, err := s.AddBody(10, r3.Vec{X: 1}, 2, body.DefaultColor)
	if err != nil || h != 0 {
		t.Fatalf("AddBody = %d, %v", h, err)
	}

	bad := []struct {
		name   string
		mass   float64
		radius float64
	}{
		{"zero mass", 0, 1},
		{"negative mass", -1, 1},
		{"negative radius", 1, -1},
	}
	for _, tt := range bad {
		if _, err := s.AddBody(tt.mass, r3.Vec{}, tt.radius, body.DefaultColor); !errors.Is(err, ErrConfiguration) {
			t.Errorf("%s: expected ErrConfiguration, got %v", tt.name, err)
		}
	}
	if s.Len() != 1 {
		t.Errorf("rejected bodies changed the set: len=%d", s.Len())
	}

	if _, err := s.AddBody(1, r3.Vec{Y: 3}, 0, body.DefaultColor); err != nil {
		t.Fatalf("second AddBody failed: %v", err)
	}
	_, err = s.AddBody(1, r3.Vec{Z: 3}, 0, body.DefaultColor)
	if !errors.Is(err, ErrCapacityExceeded) || !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected capacity error, got %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("len = %d, want 2", s.Len())
	}
}

func TestAddBodyAfterStart(t *testing.T) {
	s, _ := New(DefaultConfig())
	s.AddBody(1, r3.Vec{}, 0, body.DefaultColor)
	if err := s.Step(0.1); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if _, err := s.AddBody(1, r3.Vec{X: 5}, 0, body.DefaultColor); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration after stepping, got %v", err)
	}
}

func TestSeedErrors(t *testing.T) {
	s, _ := New(DefaultConfig())
	if err := s.SeedInitialVelocities(0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("seeding an empty set: got %v", err)
	}

	s.AddBody(100, r3.Vec{}, 0, body.DefaultColor)
	s.AddBody(1, r3.Vec{}, 0, body.DefaultColor)
	if err := s.SeedInitialVelocities(5); !errors.Is(err, ErrConfiguration) {
		t.Errorf("out of range primary: got %v", err)
	}
	if err := s.SeedInitialVelocities(0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("body on the primary: got %v", err)
	}
	if s.Phase() != Uninitialized {
		t.Errorf("failed seed changed phase to %s", s.Phase())
	}
	for _, b := range s.Bodies() {
		if b.Velocity != (r3.Vec{}) {
			t.Errorf("failed seed wrote a velocity: %+v", b.Velocity)
		}
	}
}

func TestPhaseTransitions(t *testing.T) {
	s, _ := New(DefaultConfig())
	s.AddBody(1000, r3.Vec{}, 0, body.DefaultColor)
	s.AddBody(1, r3.Vec{X: 50}, 0, body.DefaultColor)

	s.Pause()
	if s.Phase() != Uninitialized {
		t.Fatalf("Pause before start: phase %s", s.Phase())
	}

	steps := []struct {
		action func() error
		want   Phase
	}{
		{func() error { return s.SeedInitialVelocities(0) }, Seeded},
		{func() error { return s.Step(0.01) }, Running},
		{func() error { s.Pause(); return nil }, Paused},
		{func() error { s.Pause(); return nil }, Paused},
		{func() error { return s.Step(0.01) }, Running},
	}
	for i, st := range steps {
		if err := st.action(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if s.Phase() != st.want {
			t.Errorf("step %d: phase %s, want %s", i, s.Phase(), st.want)
		}
	}
	if s.Steps() != 2 || math.Abs(s.Time()-0.02) > 1e-15 {
		t.Errorf("steps=%d time=%v", s.Steps(), s.Time())
	}
}

func TestStepRejectsBadDt(t *testing.T) {
	s, _ := New(DefaultConfig())
	s.AddBody(1, r3.Vec{}, 0, body.DefaultColor)
	for _, dt := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if err := s.Step(dt); !errors.Is(err, ErrConfiguration) {
			t.Errorf("dt=%v: expected ErrConfiguration, got %v", dt, err)
		}
	}
	if s.Steps() != 0 {
		t.Errorf("rejected dt advanced the clock")
	}
	if err := s.Step(0); err != nil {
		t.Errorf("zero dt should succeed: %v", err)
	}
}

func TestStepInstabilityFromOverflow(t *testing.T) {
	s, _ := New(DefaultConfig())
	s.AddBody(1, r3.Vec{}, 0, body.DefaultColor, WithVelocity(r3.Vec{X: math.MaxFloat64}))

	before := s.Bodies()
	err := s.Step(10)
	var stepErr *StepError
	if !errors.As(err, &stepErr) || !errors.Is(err, ErrNumericalInstability) {
		t.Fatalf("expected StepError wrapping ErrNumericalInstability, got %v", err)
	}
	if stepErr.Body != 0 {
		t.Errorf("StepError.Body = %d, want 0", stepErr.Body)
	}
	if s.Bodies()[0] != before[0] {
		t.Error("rejected tick modified state")
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := New(DefaultConfig())
	red := body.Color{R: 1}
	s.AddBody(3, r3.Vec{X: 1, Y: 2, Z: 3}, 4, red, WithVelocity(r3.Vec{X: 9}))
	s.AddBody(1, r3.Vec{X: -5}, 0.5, body.DefaultColor)

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len = %d, want 2", len(snap))
	}
	want := BodyView{Position: r3.Vec{X: 1, Y: 2, Z: 3}, Radius: 4, Color: red}
	if snap[0] != want {
		t.Errorf("snap[0] = %+v, want %+v", snap[0], want)
	}

	snap[0].Position.X = 1000
	again := s.Snapshot()
	if again[0].Position.X != 1 {
		t.Error("snapshot aliases simulation state")
	}
	if again[1] != snap[1] {
		t.Error("repeated snapshots differ")
	}
}

func TestStepErrorMessage(t *testing.T) {
	err := &StepError{Step: 150, Time: 1.5, Body: 2, Wrapped: ErrNumericalInstability}
	expected := "step 150 (t=1.5000) body 2: sim: numerical instability"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{Uninitialized: "uninitialized", Seeded: "seeded", Running: "running", Paused: "paused", Phase(42): "unknown"} {
		if p.String() != want {
			t.Errorf("%d.String() = %s, want %s", p, p.String(), want)
		}
	}
}
