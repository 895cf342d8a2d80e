package metrics

import (
	"math"

	"github.com/san-kum/planetsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// OrbitSpread tracks every body's distance from the primary and reports the
// worst relative spread (max-min)/initial over all non-primary bodies. A
// perfectly circular system scores zero.
type OrbitSpread struct {
	primary  int
	initial  []float64
	min, max []float64
}

func NewOrbitSpread(primary int) *OrbitSpread {
	return &OrbitSpread{primary: primary}
}

func (o *OrbitSpread) Name() string { return "orbit_spread" }

func (o *OrbitSpread) Observe(bodies []body.Body, t float64) {
	if o.primary < 0 || o.primary >= len(bodies) {
		return
	}
	if o.initial == nil {
		o.initial = make([]float64, len(bodies))
		o.min = make([]float64, len(bodies))
		o.max = make([]float64, len(bodies))
		for i := range bodies {
			d := Separation(bodies, o.primary, i)
			o.initial[i], o.min[i], o.max[i] = d, d, d
		}
		return
	}
	for i := range bodies {
		d := Separation(bodies, o.primary, i)
		o.min[i] = math.Min(o.min[i], d)
		o.max[i] = math.Max(o.max[i], d)
	}
}

func (o *OrbitSpread) Value() float64 {
	worst := 0.0
	for i := range o.initial {
		if i == o.primary || o.initial[i] == 0 {
			continue
		}
		worst = math.Max(worst, (o.max[i]-o.min[i])/o.initial[i])
	}
	return worst
}

func (o *OrbitSpread) Reset() {
	o.initial, o.min, o.max = nil, nil, nil
}

func Separation(bodies []body.Body, i, j int) float64 {
	return r3.Norm(r3.Sub(bodies[j].Position, bodies[i].Position))
}
