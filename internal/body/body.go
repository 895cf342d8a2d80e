package body

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrInvalidMass   = errors.New("body: mass must be finite and positive")
	ErrInvalidRadius = errors.New("body: radius must be finite and non-negative")
	ErrNonFinite     = errors.New("body: position and velocity must be finite")
)

// Appearance holds the display-only part of a body. Radius doubles as the
// collision extent; colour is never read by the physics.
type Appearance struct {
	Radius float64
	Color  Color
}

// Body is one simulated point mass.
type Body struct {
	Mass     float64
	Position r3.Vec
	Velocity r3.Vec
	Appearance
}

func New(mass float64, pos r3.Vec, radius float64, c Color) Body {
	return Body{
		Mass:       mass,
		Position:   pos,
		Appearance: Appearance{Radius: radius, Color: c},
	}
}

// Validate reports whether b may be added to a simulation.
func (b Body) Validate() error {
	if math.IsNaN(b.Mass) || math.IsInf(b.Mass, 0) || b.Mass <= 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidMass, b.Mass)
	}
	if math.IsNaN(b.Radius) || math.IsInf(b.Radius, 0) || b.Radius < 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidRadius, b.Radius)
	}
	if !IsFinite(b.Position) || !IsFinite(b.Velocity) {
		return ErrNonFinite
	}
	return nil
}

func IsFinite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
