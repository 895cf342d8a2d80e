package metrics

import (
	"math"

	"github.com/san-kum/planetsim/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// Potential is the part of physics.Field the energy metric needs.
type Potential interface {
	PotentialEnergy(positions []r3.Vec, masses []float64) float64
}

func KineticEnergy(bodies []body.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * r3.Norm2(b.Velocity)
	}
	return ke
}

func TotalEnergy(field Potential, bodies []body.Body) float64 {
	positions := make([]r3.Vec, len(bodies))
	masses := make([]float64, len(bodies))
	for i, b := range bodies {
		positions[i], masses[i] = b.Position, b.Mass
	}
	return KineticEnergy(bodies) + field.PotentialEnergy(positions, masses)
}

// EnergyDrift reports the largest relative deviation of total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	field         Potential
}

func NewEnergyDrift(field Potential) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		field: field,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []body.Body, t float64) {
	energy := TotalEnergy(e.field, bodies)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
