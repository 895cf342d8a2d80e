package integrators

import "gonum.org/v1/gonum/spatial/r3"

// Verlet is velocity Verlet: a full position step from the current
// acceleration, then the velocity from the mean of old and new acceleration.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(acc Accelerator, i int, positions, velocities []r3.Vec, masses []float64, dt float64) (r3.Vec, r3.Vec, error) {
	x, u := positions[i], velocities[i]

	a0, err := acc.Acceleration(i, x, positions, masses)
	if err != nil {
		return x, u, err
	}

	pos := r3.Add(x, r3.Add(r3.Scale(dt, u), r3.Scale(0.5*dt*dt, a0)))
	a1, err := acc.Acceleration(i, pos, positions, masses)
	if err != nil {
		return x, u, err
	}

	vel := r3.Add(u, r3.Scale(0.5*dt, r3.Add(a0, a1)))
	return pos, vel, nil
}
