package dynamo_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/field"
	"github.com/san-kum/testparticle/internal/integrators"
	"gonum.org/v1/gonum/spatial/r3"
)

func run(p dynamo.Params, x0 dynamo.State) *dynamo.Trajectory {
	tr, err := dynamo.New(integrators.NewRK4()).Run(context.Background(), p, x0)
	Expect(err).NotTo(HaveOccurred())
	Expect(tr.Len()).To(Equal(p.Steps))
	return tr
}

func params(profile field.Profile, dt, duration float64) dynamo.Params {
	p := dynamo.DefaultParams()
	p.Profile = profile
	p.Dt = dt
	p.Steps = int(math.Round(duration/dt)) + 1
	return p
}

func maxEnergyDrift(tr *dynamo.Trajectory) float64 {
	e0 := r3.Norm2(tr.Velocity(0))
	worst := 0.0
	for i := 0; i < tr.Len(); i++ {
		worst = math.Max(worst, math.Abs(r3.Norm2(tr.Velocity(i))-e0)/e0)
	}
	return worst
}

// gyration from (1,0,0) with v=(0,1,0) in Bz=1: x = 2 - cos t, y = sin t.
func exactGyration(t float64) r3.Vec {
	return r3.Vec{X: 2 - math.Cos(t), Y: math.Sin(t)}
}

func guidingCenter(s dynamo.State, b, vE r3.Vec) r3.Vec {
	u := r3.Sub(s.Velocity, vE)
	return r3.Add(s.Position, r3.Scale(1/r3.Norm2(b), r3.Cross(u, b)))
}

var _ = Describe("Simulator", func() {
	x0 := dynamo.State{Position: r3.Vec{X: 1}, Velocity: r3.Vec{Y: 1}}

	Describe("simple gyration", func() {
		It("conserves kinetic energy with a tolerance shrinking with dt", func() {
			coarse := maxEnergyDrift(run(params(field.SimpleGyration, 0.1, 100), x0))
			fine := maxEnergyDrift(run(params(field.SimpleGyration, 0.05, 100), x0))

			Expect(coarse).To(BeNumerically("<", 1e-4))
			Expect(fine).To(BeNumerically("<", coarse/16))
		})

		It("traces a circle of the analytic gyroradius", func() {
			tr := run(params(field.SimpleGyration, 0.01, 2*math.Pi), x0)

			// rho = m|v_perp|/(q|B|) = 1 about the guiding centre (2,0,0).
			centre := guidingCenter(tr.Initial(), r3.Vec{Z: 1}, r3.Vec{})
			Expect(centre.X).To(BeNumerically("~", 2, 1e-12))
			for i := 0; i < tr.Len(); i++ {
				r := r3.Sub(tr.Position(i), centre)
				Expect(math.Hypot(r.X, r.Y)).To(BeNumerically("~", 1, 1e-8))
			}
		})

		It("matches the example scenario", func() {
			p := dynamo.DefaultParams()
			p.Dt = 0.01
			p.Steps = 1000
			tr := run(p, x0)

			// One period is 2*pi ~ 628 steps.
			back := tr.Position(628)
			Expect(back.X).To(BeNumerically("~", 1, 1e-2))
			Expect(back.Y).To(BeNumerically("~", 0, 1e-2))
			Expect(back.Z).To(BeZero())

			last := tr.Len() - 1
			Expect(r3.Norm(r3.Sub(tr.Position(last), exactGyration(tr.Time(last))))).To(BeNumerically("<", 1e-8))
			Expect(tr.Time(last)).To(BeNumerically("~", 9.99, 1e-12))
		})

		It("converges at fourth order", func() {
			errAt := func(dt float64) float64 {
				tr := run(params(field.SimpleGyration, dt, 10), x0)
				last := tr.Len() - 1
				return r3.Norm(r3.Sub(tr.Position(last), exactGyration(tr.Time(last))))
			}

			ratio := errAt(0.1) / errAt(0.05)
			Expect(ratio).To(BeNumerically("~", 16, 3))
		})
	})

	Describe("crossed fields", func() {
		It("drifts at E x B / |B|^2", func() {
			sample, err := field.Evaluate(r3.Vec{}, field.ExBDrift)
			Expect(err).NotTo(HaveOccurred())
			b := sample.Magnetic
			vE := r3.Scale(1/r3.Norm2(b), r3.Cross(sample.Electric, b))
			Expect(vE.X).To(BeNumerically("~", 0.1, 1e-15))

			for _, dt := range []float64{0.05, 0.01} {
				tr := run(params(field.ExBDrift, dt, 10*math.Pi), x0)
				g0 := guidingCenter(tr.Initial(), b, vE)
				g1 := guidingCenter(tr.Final(), b, vE)
				drift := r3.Scale(1/tr.FinalTime(), r3.Sub(g1, g0))

				Expect(drift.X).To(BeNumerically("~", 0.1, 1e-6))
				Expect(drift.Y).To(BeNumerically("~", 0, 1e-6))
			}
		})
	})

	Describe("gradient step", func() {
		It("drifts along y while gyrating across x=0", func() {
			start := dynamo.State{Velocity: r3.Vec{X: 1}}
			// Ten cycles of a unit-speed orbit through both half-planes.
			period := math.Pi * (1 + 1/2.25)
			tr := run(params(field.GradientDrift, 0.01, 10*period), start)

			for i := 0; i < tr.Len(); i++ {
				Expect(tr.Position(i).X).To(BeNumerically(">=", -1.5))
				Expect(tr.Position(i).X).To(BeNumerically("<=", 0.8))
			}
			Expect(tr.Final().Position.Y).To(BeNumerically(">", 8))
		})
	})

	It("is deterministic", func() {
		p := params(field.GradientDrift, 0.02, 20)
		start := dynamo.State{Position: r3.Vec{X: 0.3}, Velocity: r3.Vec{X: 0.2, Y: 1, Z: 0.1}}
		Expect(run(p, start)).To(Equal(run(p, start)))
	})

	It("rejects invalid parameters before stepping", func() {
		for _, dt := range []float64{0, -0.01} {
			p := dynamo.DefaultParams()
			p.Dt = dt
			tr, err := dynamo.New(integrators.NewRK4()).Run(context.Background(), p, x0)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
			Expect(tr).To(BeNil())
		}

		p := dynamo.DefaultParams()
		p.Steps = 0
		_, err := dynamo.New(integrators.NewRK4()).Run(context.Background(), p, x0)
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})
