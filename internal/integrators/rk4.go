package integrators

import "gonum.org/v1/gonum/spatial/r3"

// RK4 is the classical fourth-order Runge-Kutta method applied to one body
// moving through the field of the others, which stay at their tick-start
// positions for all four stages.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(acc Accelerator, i int, positions, velocities []r3.Vec, masses []float64, dt float64) (r3.Vec, r3.Vec, error) {
	x, v := positions[i], velocities[i]
	half := 0.5 * dt

	k1x := v
	k1v, err := acc.Acceleration(i, x, positions, masses)
	if err != nil {
		return x, v, err
	}

	k2x := r3.Add(v, r3.Scale(half, k1v))
	k2v, err := acc.Acceleration(i, r3.Add(x, r3.Scale(half, k1x)), positions, masses)
	if err != nil {
		return x, v, err
	}

	k3x := r3.Add(v, r3.Scale(half, k2v))
	k3v, err := acc.Acceleration(i, r3.Add(x, r3.Scale(half, k2x)), positions, masses)
	if err != nil {
		return x, v, err
	}

	k4x := r3.Add(v, r3.Scale(dt, k3v))
	k4v, err := acc.Acceleration(i, r3.Add(x, r3.Scale(dt, k3x)), positions, masses)
	if err != nil {
		return x, v, err
	}

	dt6 := dt / 6
	pos := r3.Add(x, r3.Scale(dt6, r3.Add(r3.Add(k1x, r3.Scale(2, k2x)), r3.Add(r3.Scale(2, k3x), k4x))))
	vel := r3.Add(v, r3.Scale(dt6, r3.Add(r3.Add(k1v, r3.Scale(2, k2v)), r3.Add(r3.Scale(2, k3v), k4v))))
	return pos, vel, nil
}
