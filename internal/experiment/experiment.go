package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/metrics"
	"github.com/san-kum/planetsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// Observer sees the committed display state after every successful tick.
type Observer interface {
	OnStep(views []sim.BodyView, t float64)
}

type Frame struct {
	Step   int            `json:"step"`
	Time   float64        `json:"time"`
	Bodies []sim.BodyView `json:"bodies"`
}

type Result struct {
	Name       string
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Retries    int
	Collisions int
	FinalDt    float64
}

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulation
	metrics   []metrics.Metric
	observers []Observer
}

// New builds the scenario and attaches the default metrics.
func New(cfg *config.Config) (*Experiment, error) {
	s, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Experiment{
		cfg:       cfg,
		simulator: s,
		metrics:   metrics.Defaults(s.Field(), cfg.Primary),
	}, nil
}

func (e *Experiment) AddMetric(m metrics.Metric)  { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o Observer)      { e.observers = append(e.observers, o) }
func (e *Experiment) Simulation() *sim.Simulation { return e.simulator }
func (e *Experiment) Config() *config.Config      { return e.cfg }

// Run advances the simulation cfg.Steps ticks. The context is checked
// between ticks only; a tick always completes. When a tick is rejected as
// numerically unstable and retries remain, dt is halved and the same tick is
// attempted again.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	s := e.simulator
	dt := e.cfg.Dt
	every := e.cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Name:    e.cfg.Name,
		Frames:  make([]Frame, 0, e.cfg.Steps/every+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	e.observe(result, true)

	for result.StepsTaken < e.cfg.Steps {
		select {
		case <-ctx.Done():
			e.finish(result, dt)
			return result, ctx.Err()
		default:
		}

		if err := s.Step(dt); err != nil {
			if errors.Is(err, sim.ErrNumericalInstability) && result.Retries < e.cfg.MaxRetries {
				result.Retries++
				dt /= 2
				continue
			}
			e.finish(result, dt)
			return result, fmt.Errorf("%s: %w", e.cfg.Name, err)
		}

		result.StepsTaken++
		e.observe(result, result.StepsTaken%every == 0 || result.StepsTaken == e.cfg.Steps)
	}

	e.finish(result, dt)
	return result, nil
}

func (e *Experiment) observe(result *Result, record bool) {
	s := e.simulator
	bodies := s.Bodies()
	for _, m := range e.metrics {
		m.Observe(bodies, s.Time())
	}

	views := s.Snapshot()
	for _, o := range e.observers {
		o.OnStep(views, s.Time())
	}
	if record {
		result.Frames = append(result.Frames, Frame{Step: s.Steps(), Time: s.Time(), Bodies: views})
	}
}

func (e *Experiment) finish(result *Result, dt float64) {
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Collisions = e.simulator.Collisions()
	result.FinalDt = dt
}

// Separation returns the distance between bodies i and j in every recorded
// frame.
func (r *Result) Separation(i, j int) []float64 {
	out := make([]float64, 0, len(r.Frames))
	for _, f := range r.Frames {
		if i >= len(f.Bodies) || j >= len(f.Bodies) {
			continue
		}
		out = append(out, r3.Norm(r3.Sub(f.Bodies[j].Position, f.Bodies[i].Position)))
	}
	return out
}
