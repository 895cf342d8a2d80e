package metrics

import "github.com/san-kum/planetsim/internal/body"

// Metric accumulates a scalar over the bodies observed after each tick.
type Metric interface {
	Name() string
	Observe(bodies []body.Body, t float64)
	Value() float64
	Reset()
}

// Defaults returns the metrics reported for every run.
func Defaults(field Potential, primary int) []Metric {
	return []Metric{
		NewEnergyDrift(field),
		NewAngularMomentumDrift(),
		NewMomentumDrift(),
		NewOrbitSpread(primary),
	}
}
