// Package dynamo provides the core of the test-particle integrator.
//
// The package defines the data model and the drivers:
//
//   - [State]: position and velocity of the particle
//   - [Params]: charge, mass, step size, step count and field profile
//   - [Lorentz]: the dt-scaled Lorentz-force equation of motion
//   - [Integrator]: single fixed-step advance of a [State]
//   - [Simulator]: runs Steps-1 integrator calls into a [Trajectory]
//
// # Example
//
//	p := dynamo.DefaultParams()
//	s := dynamo.New(integrators.NewRK4())
//	tr, err := s.Run(ctx, p, dynamo.State{
//	    Position: r3.Vec{X: 1},
//	    Velocity: r3.Vec{Y: 1},
//	})
//
// # Thread Safety
//
// A run is strictly sequential. Independent runs share nothing and may be
// executed concurrently; [Sweep] does that for a batch of initial states.
package dynamo
