package integrators

import (
	"github.com/san-kum/testparticle/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Euler is the explicit first-order stepper, kept as a reference for
// order comparisons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, s dynamo.State) dynamo.State {
	dr, dv := sys.Derive(s.Position, s.Velocity)
	return dynamo.State{
		Position: r3.Add(s.Position, dr),
		Velocity: r3.Add(s.Velocity, dv),
	}
}
