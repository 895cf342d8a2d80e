package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const DefaultCollisionEpsilon = 1e-12

// Resolver applies elastic impulses between overlapping spheres.
//
// Pairs are visited in index order and each impulse is applied before the
// next pair is tested, so a body touching several others accumulates
// corrections sequentially. Nothing prevents tunneling: a body moving further
// than the combined radii in one tick can pass through another unseen.
type Resolver struct {
	// Squared separations and squared relative speeds at or below Epsilon
	// are degenerate and the pair is left alone.
	Epsilon float64
}

// NewResolver keeps a zero epsilon, which skips only exactly coincident or
// exactly co-moving pairs. Negative or NaN values fall back to the default.
func NewResolver(epsilon float64) Resolver {
	if !(epsilon >= 0) || math.IsInf(epsilon, 0) {
		epsilon = DefaultCollisionEpsilon
	}
	return Resolver{Epsilon: epsilon}
}

// Resolve updates velocities in place and returns how many pairs received
// an impulse. Positions, masses and radii are read only.
func (r Resolver) Resolve(positions, velocities []r3.Vec, masses, radii []float64) int {
	applied := 0
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if r.resolvePair(i, j, positions, velocities, masses, radii) {
				applied++
			}
		}
	}
	return applied
}

func (r Resolver) resolvePair(a, b int, positions, velocities []r3.Vec, masses, radii []float64) bool {
	n := r3.Sub(positions[a], positions[b])
	dist2 := r3.Norm2(n)
	if r3.Norm(n)-(radii[a]+radii[b]) > 0 {
		return false
	}
	if dist2 <= r.Epsilon {
		return false
	}

	rel := r3.Sub(velocities[a], velocities[b])
	if r3.Norm2(rel) <= r.Epsilon {
		return false
	}

	approach := r3.Dot(rel, n)
	if approach >= 0 {
		// already separating
		return false
	}

	total := masses[a] + masses[b]
	k := approach / dist2
	velocities[a] = r3.Sub(velocities[a], r3.Scale(2*masses[b]/total*k, n))
	// dot(vB-vA, pB-pA) equals dot(vA-vB, pA-pB), and pB-pA = -n.
	velocities[b] = r3.Add(velocities[b], r3.Scale(2*masses[a]/total*k, n))
	return true
}
