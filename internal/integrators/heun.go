package integrators

import "gonum.org/v1/gonum/spatial/r3"

// Heun is the improved Euler predictor-corrector. It is second order and
// keeps no state between calls.
type Heun struct{}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Step(acc Accelerator, i int, positions, velocities []r3.Vec, masses []float64, dt float64) (r3.Vec, r3.Vec, error) {
	pos, vel := positions[i], velocities[i]

	a0, err := acc.Acceleration(i, pos, positions, masses)
	if err != nil {
		return pos, vel, err
	}

	predicted := r3.Add(pos, r3.Scale(dt, vel))
	a1, err := acc.Acceleration(i, predicted, positions, masses)
	if err != nil {
		return pos, vel, err
	}

	halfDt := 0.5 * dt
	newVel := r3.Add(vel, r3.Scale(halfDt, r3.Add(a0, a1)))
	newPos := r3.Add(pos, r3.Scale(halfDt, r3.Add(vel, newVel)))

	return newPos, newVel, nil
}
