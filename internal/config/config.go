package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.01
	DefaultSteps       = 1000
	DefaultIntegrator  = "heun"
	DefaultSampleEvery = 10
)

var ErrInvalid = errors.New("config: invalid scenario")

// Config is a scenario file: physics tunables, run control and the bodies.
type Config struct {
	Name        string        `yaml:"name"`
	Integrator  string        `yaml:"integrator"`
	Dt          float64       `yaml:"dt"`
	Steps       int           `yaml:"steps"`
	Primary     int           `yaml:"primary"`
	AutoOrbit   bool          `yaml:"auto_orbit"`
	MaxRetries  int           `yaml:"max_retries"`
	SampleEvery int           `yaml:"sample_every"`
	Physics     PhysicsConfig `yaml:"physics"`
	Bodies      []BodyConfig  `yaml:"bodies"`
}

type PhysicsConfig struct {
	G                float64    `yaml:"g"`
	MinDistance      float64    `yaml:"min_distance"`
	CollisionEpsilon float64    `yaml:"collision_epsilon"`
	Capacity         int        `yaml:"capacity"`
	ReferenceAxis    [3]float64 `yaml:"reference_axis,flow"`
}

type BodyConfig struct {
	Name     string     `yaml:"name,omitempty"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
	Radius   float64    `yaml:"radius"`
	Color    string     `yaml:"color,omitempty"`
}

func DefaultConfig() *Config {
	simCfg := sim.DefaultConfig()
	return &Config{
		Name:        "custom",
		Integrator:  DefaultIntegrator,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Physics: PhysicsConfig{
			G:                simCfg.G,
			MinDistance:      simCfg.MinDistance,
			CollisionEpsilon: simCfg.CollisionEpsilon,
			Capacity:         simCfg.Capacity,
			ReferenceAxis:    vecToArray(simCfg.ReferenceAxis),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks run control. Body and physics values are checked by the
// simulation itself when the scenario is built.
func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", ErrInvalid, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalid, c.Steps)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must be non-negative", ErrInvalid)
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.AutoOrbit && (c.Primary < 0 || c.Primary >= len(c.Bodies)) {
		return fmt.Errorf("%w: primary %d out of range for %d bodies", ErrInvalid, c.Primary, len(c.Bodies))
	}
	for i, b := range c.Bodies {
		if b.Color == "" {
			continue
		}
		if _, err := body.ParseHex(b.Color); err != nil {
			return fmt.Errorf("%w: body %d: %v", ErrInvalid, i, err)
		}
	}
	return nil
}

func (c *Config) SimConfig() (sim.Config, error) {
	integ, err := integrators.Get(c.Integrator)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		G:                c.Physics.G,
		MinDistance:      c.Physics.MinDistance,
		CollisionEpsilon: c.Physics.CollisionEpsilon,
		Capacity:         c.Physics.Capacity,
		ReferenceAxis:    arrayToVec(c.Physics.ReferenceAxis),
		Integrator:       integ,
	}, nil
}

// Build creates the simulation, adds every body in order and, with
// auto_orbit, seeds circular velocities around the primary.
func (c *Config) Build() (*sim.Simulation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	simCfg, err := c.SimConfig()
	if err != nil {
		return nil, err
	}
	s, err := sim.New(simCfg)
	if err != nil {
		return nil, err
	}

	for i, b := range c.Bodies {
		col := body.DefaultColor
		if b.Color != "" {
			col, _ = body.ParseHex(b.Color)
		}
		opts := []sim.BodyOption{sim.WithVelocity(arrayToVec(b.Velocity))}
		if _, err := s.AddBody(b.Mass, arrayToVec(b.Position), b.Radius, col, opts...); err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, b.Name, err)
		}
	}

	if c.AutoOrbit {
		if err := s.SeedInitialVelocities(c.Primary); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// BodyName returns the configured name of body i, or its index.
func (c *Config) BodyName(i int) string {
	if i < len(c.Bodies) && c.Bodies[i].Name != "" {
		return c.Bodies[i].Name
	}
	return fmt.Sprintf("#%d", i)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &cp
}

func arrayToVec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }
func vecToArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
