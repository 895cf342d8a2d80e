package sim

import (
	"math"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultG           = 1.0
	DefaultMinDistance = 1e-3
	DefaultCapacity    = 64
)

// Config holds the physical tunables. Nothing in the simulation reads a
// global constant.
type Config struct {
	G                float64
	MinDistance      float64
	CollisionEpsilon float64
	Capacity         int
	// ReferenceAxis is the orbital-plane normal used when seeding.
	ReferenceAxis r3.Vec
	// Integrator defaults to Heun when nil.
	Integrator integrators.Integrator
}

func DefaultConfig() Config {
	return Config{
		G:                DefaultG,
		MinDistance:      DefaultMinDistance,
		CollisionEpsilon: physics.DefaultCollisionEpsilon,
		Capacity:         DefaultCapacity,
		ReferenceAxis:    physics.DefaultAxis,
	}
}

func (c Config) validate() error {
	if math.IsNaN(c.G) || math.IsInf(c.G, 0) || c.G < 0 {
		return configErr("G must be finite and non-negative, got %v", c.G)
	}
	if math.IsNaN(c.MinDistance) || math.IsInf(c.MinDistance, 0) || c.MinDistance < 0 {
		return configErr("min distance must be finite and non-negative, got %v", c.MinDistance)
	}
	if math.IsNaN(c.CollisionEpsilon) || math.IsInf(c.CollisionEpsilon, 0) || c.CollisionEpsilon < 0 {
		return configErr("collision epsilon must be finite and non-negative, got %v", c.CollisionEpsilon)
	}
	if c.Capacity <= 0 {
		return configErr("capacity must be positive, got %d", c.Capacity)
	}
	if !body.IsFinite(c.ReferenceAxis) || r3.Norm2(c.ReferenceAxis) == 0 {
		return configErr("reference axis must be a finite non-zero vector")
	}
	return nil
}
