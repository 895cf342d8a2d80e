package integrators

import "gonum.org/v1/gonum/spatial/r3"

// Euler is the first-order semi-implicit (symplectic) Euler method: velocity
// first, then position with the updated velocity. Kept for comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(acc Accelerator, i int, positions, velocities []r3.Vec, masses []float64, dt float64) (r3.Vec, r3.Vec, error) {
	a, err := acc.Acceleration(i, positions[i], positions, masses)
	if err != nil {
		return positions[i], velocities[i], err
	}
	vel := r3.Add(velocities[i], r3.Scale(dt, a))
	pos := r3.Add(positions[i], r3.Scale(dt, vel))
	return pos, vel, nil
}
