package physics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrCoincident is returned when two bodies share a centre and the
// direction of their mutual pull is undefined.
var ErrCoincident = errors.New("physics: coincident bodies (zero separation)")

// Field evaluates Newtonian gravity over a set of point masses.
type Field struct {
	G float64
	// Separations below MinDistance are clamped to it in the denominator.
	MinDistance float64
}

func NewField(g, minDistance float64) Field {
	return Field{G: g, MinDistance: minDistance}
}

// Acceleration returns the net acceleration on body target as if it sat at
// at, pulled by every other entry of positions. The target's own entry is
// skipped so callers can probe a predicted position without copying.
func (f Field) Acceleration(target int, at r3.Vec, positions []r3.Vec, masses []float64) (r3.Vec, error) {
	var acc r3.Vec
	minR3 := f.MinDistance * f.MinDistance * f.MinDistance

	for j, pj := range positions {
		if j == target {
			continue
		}

		d := r3.Sub(pj, at)
		r2 := r3.Norm2(d)
		if r2 == 0 {
			return r3.Vec{}, ErrCoincident
		}

		r := math.Sqrt(r2)
		r3Denom := r2 * r
		if r3Denom < minR3 {
			r3Denom = minR3
		}

		acc = r3.Add(acc, r3.Scale(f.G*masses[j]/r3Denom, d))
	}

	return acc, nil
}

// PotentialEnergy is the pairwise -G m_i m_j / r sum with the same
// minimum-distance clamp as Acceleration.
func (f Field) PotentialEnergy(positions []r3.Vec, masses []float64) float64 {
	pe := 0.0
	for i := range positions {
		for j := i + 1; j < len(positions); j++ {
			r := math.Max(r3.Norm(r3.Sub(positions[j], positions[i])), f.MinDistance)
			if r == 0 {
				continue
			}
			pe -= f.G * masses[i] * masses[j] / r
		}
	}
	return pe
}
