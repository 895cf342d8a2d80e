package experiment

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/planetsim/internal/config"
	"golang.org/x/sync/errgroup"
)

// MaxSweepSteps bounds the ticks a single sweep run may take.
const MaxSweepSteps = 100_000_000

type SweepResult struct {
	Dt     float64
	Result *Result
	// Err is the run's own failure, such as a numerically unstable tick.
	// It does not stop the other runs.
	Err error
}

// Sweep runs the scenario once per dt, each on its own simulation, covering
// the same simulated time as cfg.Dt*cfg.Steps. Results keep the order of dts.
// Only context cancellation aborts the sweep as a whole.
func Sweep(ctx context.Context, cfg *config.Config, dts []float64) ([]SweepResult, error) {
	duration := cfg.Dt * float64(cfg.Steps)
	for _, dt := range dts {
		if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
			return nil, fmt.Errorf("%w: sweep dt must be positive, got %v", config.ErrInvalid, dt)
		}
		if steps := math.Round(duration / dt); !(steps <= MaxSweepSteps) {
			return nil, fmt.Errorf("%w: dt %v needs %.3g steps to cover t=%g, limit is %d",
				config.ErrInvalid, dt, steps, duration, MaxSweepSteps)
		}
	}

	results := make([]SweepResult, len(dts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, dt := range dts {
		i, dt := i, dt
		g.Go(func() error {
			run := cfg.Clone()
			run.Dt = dt
			run.Steps = int(math.Round(duration / dt))
			run.MaxRetries = 0
			results[i].Dt = dt

			exp, err := New(run)
			if err != nil {
				return err
			}
			results[i].Result, results[i].Err = exp.Run(ctx)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
