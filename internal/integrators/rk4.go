package integrators

import (
	"github.com/san-kum/testparticle/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// RK4 is the classical fourth-order Runge-Kutta stepper. It holds no
// scratch state and is safe for concurrent use.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

// Step combines four stage increments. The system already scales its
// increments by dt, so the stages are offset by half and whole increments
// rather than by dt*k.
func (r *RK4) Step(sys dynamo.System, s dynamo.State) dynamo.State {
	x, v := s.Position, s.Velocity

	dr1, dv1 := sys.Derive(x, v)
	dr2, dv2 := sys.Derive(r3.Add(x, r3.Scale(0.5, dr1)), r3.Add(v, r3.Scale(0.5, dv1)))
	dr3, dv3 := sys.Derive(r3.Add(x, r3.Scale(0.5, dr2)), r3.Add(v, r3.Scale(0.5, dv2)))
	dr4, dv4 := sys.Derive(r3.Add(x, dr3), r3.Add(v, dv3))

	return dynamo.State{
		Position: r3.Add(x, combine(dr1, dr2, dr3, dr4)),
		Velocity: r3.Add(v, combine(dv1, dv2, dv3, dv4)),
	}
}

// combine returns (k1 + 2k2 + 2k3 + k4)/6.
func combine(k1, k2, k3, k4 r3.Vec) r3.Vec {
	sum := r3.Add(r3.Add(k1, r3.Scale(2, k2)), r3.Add(r3.Scale(2, k3), k4))
	return r3.Scale(1.0/6.0, sum)
}
