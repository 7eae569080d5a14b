package dynamo

import (
	"math"

	"github.com/san-kum/testparticle/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the particle's phase-space point. It is a value: every step
// produces a new one.
type State struct {
	Position r3.Vec
	Velocity r3.Vec
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	return finite(s.Position) && finite(s.Velocity)
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// System is the right-hand side sampled by an integrator. Both increments
// are already scaled by the step size.
type System interface {
	Derive(r, v r3.Vec) (dr, dv r3.Vec)
}

// Integrator advances a state by one fixed step.
type Integrator interface {
	Step(sys System, s State) State
}

// Observer receives advisory progress notifications. It must not retain
// or mutate anything reachable from the trajectory.
type Observer interface {
	OnStep(step, total int, s State, t float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step, total int, s State, t float64)

func (f ObserverFunc) OnStep(step, total int, s State, t float64) { f(step, total, s, t) }

// Params are fixed for one run.
type Params struct {
	Charge  float64
	Mass    float64
	Dt      float64
	Steps   int
	Profile field.Profile
	// Custom backs the field.Custom profile and is ignored otherwise.
	Custom field.Func
}

func DefaultParams() Params {
	return Params{
		Charge:  1.0,
		Mass:    1.0,
		Dt:      0.01,
		Steps:   1000,
		Profile: field.SimpleGyration,
	}
}

// Validate reports the first problem that would prevent a run. Every
// returned error wraps ErrConfiguration.
func (p Params) Validate() error {
	if math.IsNaN(p.Dt) || math.IsInf(p.Dt, 0) || p.Dt <= 0 {
		return configErr("dt must be positive, got %g", p.Dt)
	}
	if p.Steps < 1 {
		return configErr("steps must be at least 1, got %d", p.Steps)
	}
	if math.IsNaN(p.Mass) || p.Mass <= 0 {
		return configErr("mass must be positive, got %g", p.Mass)
	}
	if _, err := field.Resolve(p.Profile, p.Custom); err != nil {
		return configErr("%v", err)
	}
	return nil
}

// Duration is the elapsed time of the last stored sample.
func (p Params) Duration() float64 {
	return float64(p.Steps-1) * p.Dt
}
