package sim

import (
	"github.com/san-kum/planetsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// BodyView is the display state of one body handed to a renderer.
type BodyView struct {
	Position r3.Vec
	Radius   float64
	Color    body.Color
}

// Snapshot returns the committed display state in body index order. The
// slice is freshly allocated and never aliases simulation memory; repeated
// calls between ticks return equal values.
func (s *Simulation) Snapshot() []BodyView {
	views := make([]BodyView, len(s.masses))
	for i := range views {
		views[i] = BodyView{
			Position: s.current.positions[i],
			Radius:   s.appearances[i].Radius,
			Color:    s.appearances[i].Color,
		}
	}
	return views
}
