package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// Divergence runs cfg twice, the second time with body moved by eps along x,
// and estimates the exponential growth rate of the distance between the two
// runs:
//
//	rate ≈ ln(d(T)/d(0)) / T
//
// d is the Euclidean distance over all body positions. Seeding, when enabled,
// is applied to both runs.
func Divergence(cfg *config.Config, body int, eps float64) (float64, error) {
	if body < 0 || body >= len(cfg.Bodies) {
		return 0, fmt.Errorf("analysis: body %d out of range for %d bodies", body, len(cfg.Bodies))
	}
	if !(eps > 0) {
		return 0, fmt.Errorf("analysis: perturbation must be positive, got %v", eps)
	}

	perturbed := cfg.Clone()
	perturbed.Bodies[body].Position[0] += eps

	a, err := cfg.Build()
	if err != nil {
		return 0, err
	}
	b, err := perturbed.Build()
	if err != nil {
		return 0, err
	}

	d0 := distance(a, b)
	for i := 0; i < cfg.Steps; i++ {
		if err := a.Step(cfg.Dt); err != nil {
			return 0, err
		}
		if err := b.Step(cfg.Dt); err != nil {
			return 0, err
		}
	}

	if a.Time() == 0 || d0 == 0 {
		return 0, nil
	}
	return math.Log(distance(a, b)/d0) / a.Time(), nil
}

func distance(a, b *sim.Simulation) float64 {
	va, vb := a.Snapshot(), b.Snapshot()
	sum := 0.0
	for i := range va {
		sum += r3.Norm2(r3.Sub(vb[i].Position, va[i].Position))
	}
	return math.Sqrt(sum)
}
