package metrics

import (
	"math"

	"github.com/san-kum/planetsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

func Momentum(bodies []body.Body) r3.Vec {
	var p r3.Vec
	for _, b := range bodies {
		p = r3.Add(p, r3.Scale(b.Mass, b.Velocity))
	}
	return p
}

// AngularMomentum is sum m (r x v) about the origin.
func AngularMomentum(bodies []body.Body) r3.Vec {
	var l r3.Vec
	for _, b := range bodies {
		l = r3.Add(l, r3.Scale(b.Mass, r3.Cross(b.Position, b.Velocity)))
	}
	return l
}

// AngularMomentumDrift reports the largest relative change of |L|.
type AngularMomentumDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{}
}

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(bodies []body.Body, t float64) {
	l := r3.Norm(AngularMomentum(bodies))
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++
	if a.initial != 0 {
		a.maxDrift = math.Max(a.maxDrift, math.Abs(l-a.initial)/a.initial)
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial, a.maxDrift, a.samples = 0, 0, 0
}

// MomentumDrift reports the largest absolute change of total linear
// momentum. Gravity and the collision impulse both conserve it, so anything
// beyond rounding points at a bug.
type MomentumDrift struct {
	initial  r3.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(bodies []body.Body, t float64) {
	p := Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, r3.Norm(r3.Sub(p, m.initial)))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial, m.maxDrift, m.samples = r3.Vec{}, 0, 0
}
