package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/ballpit/internal/particle"
)

var _ = Describe("Simulator", func() {
	var (
		s  *Simulator
		vp *Viewport
	)

	step := func(dt float64) StepInfo {
		info, err := s.Step(Input{Dt: dt, Viewport: vp})
		Expect(err).NotTo(HaveOccurred())
		return info
	}

	BeforeEach(func() {
		s = newTestSim()
		vp = viewport(800, 600)
	})

	Describe("gravity", func() {
		It("integrates velocity then position with explicit Euler", func() {
			g := r2.Vec{X: 2, Y: -9}
			s.Submit(SetGravity{Gravity: g})
			step(0)
			place(s, at(0, 0))

			step(0.5)
			Expect(s.Particles()[0].Velocity.X).To(BeNumerically("~", 1.0, 1e-12))
			Expect(s.Particles()[0].Velocity.Y).To(BeNumerically("~", -4.5, 1e-12))
		})
	})

	Describe("freeze", func() {
		BeforeEach(func() {
			s.Submit(SetGravity{Gravity: r2.Vec{Y: -100}})
			place(s, moving(0, 0, 10, 0), moving(5, 0, -10, 0))
			s.SetFreeze(true)
		})

		It("leaves positions and velocities untouched", func() {
			before := s.Snapshot(nil)
			info := step(0.1)

			Expect(info.Frozen).To(BeTrue())
			Expect(info.Collisions).To(BeZero())
			Expect(s.Particles()).To(Equal(before))
		})

		It("still applies commands", func() {
			s.Submit(SetGravity{Gravity: r2.Vec{X: 3}}, AddParticles{Count: 1})
			step(0.1)

			Expect(s.Rules().Physics.Gravity).To(Equal(r2.Vec{X: 3}))
			Expect(s.Len()).To(Equal(3))
		})

		It("resumes once unfrozen", func() {
			step(0.1)
			s.SetFreeze(false)
			info := step(0.1)
			Expect(info.Collisions).To(Equal(1))
		})
	})

	Describe("collisions", func() {
		It("reverses equal and opposite velocities scaled by dampening", func() {
			s.Submit(SetDampening{Dampening: 0.6})
			place(s, moving(-8, 0, 7, 0), moving(8, 0, -7, 0))

			info := step(0)
			a, b := s.Particles()[0], s.Particles()[1]

			Expect(info.Collisions).To(Equal(1))
			Expect(a.Velocity.X).To(BeNumerically("~", -7*0.6, 1e-12))
			Expect(b.Velocity.X).To(BeNumerically("~", 7*0.6, 1e-12))
			Expect(r2.Norm(r2.Sub(a.Position, b.Position))).To(BeNumerically("~", 2*DefaultRadius, 1e-12))
		})

		It("separates coincident particles along +x", func() {
			place(s, at(0, 0), at(0, 0))
			step(0)
			Expect(s.Particles()[0].Position).To(Equal(r2.Vec{X: DefaultRadius}))
			Expect(s.Particles()[1].Position).To(Equal(r2.Vec{X: -DefaultRadius}))
		})
	})

	Describe("boundary", func() {
		It("reflects a particle leaving through the right wall", func() {
			halfW := vp.Width / 2
			place(s, moving(halfW-DefaultRadius+1, 0, 40, 0))

			step(0)
			p := s.Particles()[0]
			Expect(p.Position.X).To(Equal(halfW - DefaultRadius))
			Expect(p.Velocity.X).To(BeNumerically("~", -40*DefaultDampening, 1e-12))
		})
	})

	Describe("rescale", func() {
		It("scales visuals without moving particles", func() {
			s.Submit(SetRadius{Radius: 10}, AddParticles{Count: 1})
			step(0)
			before := s.Particles()[0]

			s.Submit(SetRadius{Radius: 5})
			step(0)
			after := s.Particles()[0]

			Expect(after.Scale).To(Equal(0.5))
			Expect(after.Position).To(Equal(before.Position))
			Expect(after.Velocity).To(Equal(before.Velocity))
		})
	})

	Describe("spawning", func() {
		It("places a grid batch deterministically", func() {
			s = newTestSim(WithLayout(particle.NewGrid(2)))
			s.Submit(SetRadius{Radius: 0.5}, AddParticles{Count: 6})
			step(0)

			var got []r2.Vec
			for _, p := range s.Particles() {
				got = append(got, p.Position)
			}
			Expect(got).To(Equal([]r2.Vec{
				{X: -6, Y: -6}, {X: -4, Y: -6}, {X: -2, Y: -6},
				{X: -6, Y: -4}, {X: -4, Y: -4}, {X: -2, Y: -4},
			}))
		})

		It("uses the radius set earlier in the same tick", func() {
			s.Submit(SetRadius{Radius: 3}, AddParticles{Count: 1})
			step(0)
			Expect(s.Particles()).To(HaveLen(1))
			Expect(s.Particles()[0].OriginalRadius).To(Equal(3.0))
		})

		It("spawns at the origin when no viewport was ever seen", func() {
			s = newTestSim(WithLayout(particle.NewRandom(3)))
			s.Submit(AddParticles{Count: 1})
			_, err := s.Step(Input{Dt: 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Particles()[0].Position).To(Equal(r2.Vec{}))
		})
	})
})
