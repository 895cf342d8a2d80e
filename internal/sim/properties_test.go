package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/planetsim/internal/body"
	"github.com/san-kum/planetsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

func newSim() *sim.Simulation {
	s, err := sim.New(sim.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return s
}

func twoBody() *sim.Simulation {
	s := newSim()
	_, err := s.AddBody(1000, r3.Vec{}, 0, body.DefaultColor)
	Expect(err).NotTo(HaveOccurred())
	_, err = s.AddBody(1, r3.Vec{X: 100}, 0, body.DefaultColor)
	Expect(err).NotTo(HaveOccurred())
	Expect(s.SeedInitialVelocities(0)).To(Succeed())
	return s
}

func relative(s *sim.Simulation) (r, v r3.Vec) {
	bodies := s.Bodies()
	return r3.Sub(bodies[1].Position, bodies[0].Position), r3.Sub(bodies[1].Velocity, bodies[0].Velocity)
}

var _ = Describe("Simulation", func() {
	Describe("stepping", func() {
		It("never changes mass or radius", func() {
			s := twoBody()
			before := s.Bodies()
			for i := 0; i < 50; i++ {
				Expect(s.Step(0.01)).To(Succeed())
			}
			after := s.Bodies()
			for i := range before {
				Expect(after[i].Mass).To(Equal(before[i].Mass))
				Expect(after[i].Radius).To(Equal(before[i].Radius))
				Expect(after[i].Color).To(Equal(before[i].Color))
			}
		})

		It("keeps a seeded two-body orbit circular", func() {
			s := twoBody()
			r0, v0 := relative(s)
			l0 := r3.Norm(r3.Cross(r0, v0))

			for i := 0; i < 1000; i++ {
				Expect(s.Step(0.01)).To(Succeed())
				r, v := relative(s)
				Expect(r3.Norm(r)).To(BeNumerically("~", 100, 1.0))
				Expect(r3.Norm(r3.Cross(r, v))).To(BeNumerically("~", l0, 0.01*l0))
			}
			Expect(s.Phase()).To(Equal(sim.Running))
		})

		It("is deterministic", func() {
			a, b := twoBody(), twoBody()
			for i := 0; i < 100; i++ {
				Expect(a.Step(0.02)).To(Succeed())
				Expect(b.Step(0.02)).To(Succeed())
			}
			Expect(a.Bodies()).To(Equal(b.Bodies()))
		})

		It("succeeds immediately with no bodies", func() {
			s := newSim()
			Expect(s.Step(0.01)).To(Succeed())
			Expect(s.Snapshot()).To(BeEmpty())
		})
	})

	Describe("collisions", func() {
		It("swaps velocities of equal masses meeting head on", func() {
			s := newSim()
			_, err := s.AddBody(1, r3.Vec{X: -10}, 10, body.DefaultColor, sim.WithVelocity(r3.Vec{X: 1}))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.AddBody(1, r3.Vec{X: 10}, 10, body.DefaultColor, sim.WithVelocity(r3.Vec{X: -1}))
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Step(0.01)).To(Succeed())
			Expect(s.Collisions()).To(Equal(1))

			bodies := s.Bodies()
			Expect(bodies[0].Velocity.X).To(BeNumerically("~", -1, 1e-3))
			Expect(bodies[1].Velocity.X).To(BeNumerically("~", 1, 1e-3))
			Expect(bodies[0].Velocity.Y).To(BeNumerically("~", 0, 1e-12))

			By("leaving the separating pair alone on the next tick")
			Expect(s.Step(0.01)).To(Succeed())
			Expect(s.Collisions()).To(Equal(1))
			bodies = s.Bodies()
			Expect(bodies[0].Velocity.X).To(BeNumerically("<", 0))
			Expect(bodies[1].Velocity.X).To(BeNumerically(">", 0))
		})
	})

	Describe("seeding", func() {
		It("gives the circular speed perpendicular to the radius", func() {
			s := twoBody()
			bodies := s.Bodies()
			v := bodies[1].Velocity
			Expect(r3.Norm(v)).To(BeNumerically("~", math.Sqrt(sim.DefaultG*1000/100), 1e-9))
			Expect(r3.Dot(v, bodies[1].Position)).To(BeNumerically("~", 0, 1e-9))
			Expect(bodies[0].Velocity).To(Equal(r3.Vec{}))
			Expect(s.Phase()).To(Equal(sim.Seeded))
		})

		It("overwrites velocity when called after stepping", func() {
			s := twoBody()
			for i := 0; i < 10; i++ {
				Expect(s.Step(0.1)).To(Succeed())
			}
			Expect(s.SeedInitialVelocities(0)).To(Succeed())
			r, _ := relative(s)
			v := s.Bodies()[1].Velocity
			Expect(r3.Dot(v, r)).To(BeNumerically("~", 0, 1e-6))
			Expect(s.Phase()).To(Equal(sim.Running))
		})
	})

	Describe("numerical instability", func() {
		It("rejects a tick with coincident bodies and keeps the old state", func() {
			s := newSim()
			_, err := s.AddBody(5, r3.Vec{X: 1, Y: 2}, 1, body.DefaultColor, sim.WithVelocity(r3.Vec{Z: 1}))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.AddBody(5, r3.Vec{X: 1, Y: 2}, 1, body.DefaultColor)
			Expect(err).NotTo(HaveOccurred())

			before := s.Bodies()
			snap := s.Snapshot()

			err = s.Step(0.01)
			Expect(err).To(MatchError(sim.ErrNumericalInstability))
			var stepErr *sim.StepError
			Expect(err).To(BeAssignableToTypeOf(stepErr))

			Expect(s.Bodies()).To(Equal(before))
			Expect(s.Snapshot()).To(Equal(snap))
			Expect(s.Steps()).To(BeZero())
			Expect(s.Phase()).To(Equal(sim.Paused))
		})
	})
})
