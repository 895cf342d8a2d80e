package physics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrNoOrbit = errors.New("physics: cannot seed orbit")

// DefaultAxis is the orbital-plane normal: seeded orbits lie in the XY plane
// and run counter-clockwise seen from +Z.
var DefaultAxis = r3.Vec{Z: 1}

var fallbackAxes = [...]r3.Vec{{X: 1}, {Y: 1}}

// OrbitalVelocity returns the velocity putting target on a circular orbit
// around primary, v = sqrt(|a| |r|), where a is the pull of the whole set on
// target and r points from target to primary. The direction is r x axis.
//
// Only the two-body idealisation gives an exact circle; with comparable
// masses the result is an approximation and seeded orbits drift.
func OrbitalVelocity(f Field, primary, target int, positions []r3.Vec, masses []float64, axis r3.Vec) (r3.Vec, error) {
	if primary == target {
		return r3.Vec{}, fmt.Errorf("%w: target %d is the primary", ErrNoOrbit, target)
	}

	r := r3.Sub(positions[primary], positions[target])
	dist := r3.Norm(r)
	if dist == 0 {
		return r3.Vec{}, fmt.Errorf("%w: body %d sits on the primary", ErrNoOrbit, target)
	}

	acc, err := f.Acceleration(target, positions[target], positions, masses)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("%w: body %d: %v", ErrNoOrbit, target, err)
	}

	dir := perpendicular(r, axis)
	speed := math.Sqrt(r3.Norm(acc) * dist)
	return r3.Scale(speed, dir), nil
}

func perpendicular(r, axis r3.Vec) r3.Vec {
	const parallelTol = 1e-12

	c := r3.Cross(r, axis)
	if r3.Norm2(c) > parallelTol*r3.Norm2(r)*r3.Norm2(axis) {
		return r3.Unit(c)
	}
	for _, alt := range fallbackAxes {
		c = r3.Cross(r, alt)
		if r3.Norm2(c) > parallelTol*r3.Norm2(r) {
			return r3.Unit(c)
		}
	}
	// unreachable for non-zero r: it cannot be parallel to both X and Y
	return r3.Vec{}
}
