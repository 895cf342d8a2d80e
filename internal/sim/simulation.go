package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/integrators"
	"github.com/san-kum/planetsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Handle identifies a body by its index in creation order.
type Handle int

// BodyOption customises a body at creation.
type BodyOption func(*body.Body)

// WithVelocity gives a body a non-zero starting velocity.
func WithVelocity(v r3.Vec) BodyOption {
	return func(b *body.Body) { b.Velocity = v }
}

// Simulation owns a fixed-capacity set of bodies and advances them one tick
// per Step call. It is not safe for concurrent use.
type Simulation struct {
	cfg        Config
	field      physics.Field
	resolver   physics.Resolver
	integrator integrators.Integrator

	// Set at creation, never written by a tick.
	masses      []float64
	appearances []body.Appearance
	radii       []float64

	current frame
	scratch frame

	phase      Phase
	steps      int
	time       float64
	collisions int
}

func New(cfg Config) (*Simulation, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	integ := cfg.Integrator
	if integ == nil {
		integ = integrators.NewHeun()
	}
	return &Simulation{
		cfg:         cfg,
		field:       physics.NewField(cfg.G, cfg.MinDistance),
		resolver:    physics.NewResolver(cfg.CollisionEpsilon),
		integrator:  integ,
		masses:      make([]float64, 0, cfg.Capacity),
		appearances: make([]body.Appearance, 0, cfg.Capacity),
		radii:       make([]float64, 0, cfg.Capacity),
		current:     newFrame(cfg.Capacity),
		scratch:     newFrame(cfg.Capacity),
		phase:       Uninitialized,
	}, nil
}

// AddBody creates a body at rest unless WithVelocity is given. Bodies can
// only be added before the simulation is seeded or stepped.
func (s *Simulation) AddBody(mass float64, pos r3.Vec, radius float64, c body.Color, opts ...BodyOption) (Handle, error) {
	if s.phase != Uninitialized {
		return -1, configErr("cannot add bodies in phase %s", s.phase)
	}
	if len(s.masses) >= s.cfg.Capacity {
		return -1, fmt.Errorf("%w (%d)", ErrCapacityExceeded, s.cfg.Capacity)
	}

	b := body.New(mass, pos, radius, c)
	for _, opt := range opts {
		opt(&b)
	}
	if err := b.Validate(); err != nil {
		return -1, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	s.masses = append(s.masses, b.Mass)
	s.appearances = append(s.appearances, b.Appearance)
	s.radii = append(s.radii, b.Radius)
	s.current.append(b.Position, b.Velocity)
	return Handle(len(s.masses) - 1), nil
}

// SeedInitialVelocities replaces the velocity of every body except primary
// with its circular-orbit velocity about primary. All velocities are computed
// from the same positions before any is written. Calling it after stepping
// has begun overwrites the current velocities outright.
func (s *Simulation) SeedInitialVelocities(primary int) error {
	n := len(s.masses)
	if primary < 0 || primary >= n {
		return configErr("primary index %d out of range [0,%d)", primary, n)
	}

	seeded := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		if i == primary {
			seeded[i] = s.current.velocities[i]
			continue
		}
		v, err := physics.OrbitalVelocity(s.field, primary, i, s.current.positions, s.masses, s.cfg.ReferenceAxis)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		if !body.IsFinite(v) {
			return configErr("seeded velocity for body %d is not finite", i)
		}
		seeded[i] = v
	}

	copy(s.current.velocities, seeded)
	if s.phase == Uninitialized {
		s.phase = Seeded
	}
	return nil
}

// Step advances every body by dt. The tick is computed into a scratch frame
// and committed only if every position and velocity is finite; otherwise the
// committed state is left as it was, the simulation pauses and a *StepError
// wrapping ErrNumericalInstability is returned.
func (s *Simulation) Step(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return configErr("dt must be finite and non-negative, got %v", dt)
	}

	n := len(s.masses)
	if n == 0 {
		s.commit(dt, 0)
		return nil
	}

	s.scratch.resize(n)
	for i := 0; i < n; i++ {
		pos, vel, err := s.integrator.Step(s.field, i, s.current.positions, s.current.velocities, s.masses, dt)
		if err != nil {
			return s.reject(i, err)
		}
		s.scratch.positions[i] = pos
		s.scratch.velocities[i] = vel
	}

	impulses := s.resolver.Resolve(s.scratch.positions, s.scratch.velocities, s.masses, s.radii)

	if bad := s.scratch.firstNonFinite(); bad >= 0 {
		return s.reject(bad, fmt.Errorf("non-finite state for body %d", bad))
	}

	s.current, s.scratch = s.scratch, s.current
	s.commit(dt, impulses)
	return nil
}

func (s *Simulation) commit(dt float64, impulses int) {
	s.steps++
	s.time += dt
	s.collisions += impulses
	s.phase = Running
}

func (s *Simulation) reject(i int, cause error) error {
	s.phase = Paused
	return &StepError{
		Step:    s.steps,
		Time:    s.time,
		Body:    i,
		Wrapped: fmt.Errorf("%w: %w", ErrNumericalInstability, cause),
	}
}

// Pause marks the simulation as resting between ticks. It has no effect
// before the first step.
func (s *Simulation) Pause() {
	if s.phase == Running {
		s.phase = Paused
	}
}

func (s *Simulation) Phase() Phase         { return s.phase }
func (s *Simulation) Len() int             { return len(s.masses) }
func (s *Simulation) Steps() int           { return s.steps }
func (s *Simulation) Time() float64        { return s.time }
func (s *Simulation) Collisions() int      { return s.collisions }
func (s *Simulation) Config() Config       { return s.cfg }
func (s *Simulation) Capacity() int        { return s.cfg.Capacity }
func (s *Simulation) Field() physics.Field { return s.field }

// Bodies returns a copy of the full body records for diagnostics. Renderers
// should use Snapshot.
func (s *Simulation) Bodies() []body.Body {
	out := make([]body.Body, len(s.masses))
	for i := range out {
		out[i] = body.Body{
			Mass:       s.masses[i],
			Position:   s.current.positions[i],
			Velocity:   s.current.velocities[i],
			Appearance: s.appearances[i],
		}
	}
	return out
}
