package integrators

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Accelerator gives the acceleration on body target placed at at, with every
// other body fixed at positions. physics.Field satisfies it.
type Accelerator interface {
	Acceleration(target int, at r3.Vec, positions []r3.Vec, masses []float64) (r3.Vec, error)
}

// Integrator advances a single body by dt. positions and velocities are the
// frozen tick-start state and must not be modified.
type Integrator interface {
	Step(acc Accelerator, i int, positions, velocities []r3.Vec, masses []float64, dt float64) (pos, vel r3.Vec, err error)
}

var registry = map[string]func() Integrator{
	"heun":   func() Integrator { return NewHeun() },
	"euler":  func() Integrator { return NewEuler() },
	"verlet": func() Integrator { return NewVerlet() },
	"rk4":    func() Integrator { return NewRK4() },
}

func Get(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	return []string{"heun", "euler", "verlet", "rk4"}
}
