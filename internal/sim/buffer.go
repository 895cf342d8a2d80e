package sim

import (
	"github.com/san-kum/planetsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// frame is the mutable part of the body set. The simulation keeps two: the
// committed frame, which readers see, and a scratch frame a tick writes into.
type frame struct {
	positions  []r3.Vec
	velocities []r3.Vec
}

func newFrame(capacity int) frame {
	return frame{
		positions:  make([]r3.Vec, 0, capacity),
		velocities: make([]r3.Vec, 0, capacity),
	}
}

func (f *frame) append(pos, vel r3.Vec) {
	f.positions = append(f.positions, pos)
	f.velocities = append(f.velocities, vel)
}

// resize makes f the same length as n bodies, reusing its backing arrays.
func (f *frame) resize(n int) {
	f.positions = f.positions[:n]
	f.velocities = f.velocities[:n]
}

// firstNonFinite returns the index of the first body with a NaN or Inf
// component, or -1.
func (f *frame) firstNonFinite() int {
	for i := range f.positions {
		if !body.IsFinite(f.positions[i]) || !body.IsFinite(f.velocities[i]) {
			return i
		}
	}
	return -1
}
