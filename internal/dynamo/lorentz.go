package dynamo

import (
	"github.com/san-kum/testparticle/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// Lorentz is the non-relativistic equation of motion of a point charge.
type Lorentz struct {
	qm    float64
	dt    float64
	field field.Func
}

// NewLorentz resolves the field profile of p. It does not validate dt or
// the step count; Simulator.Run does.
func NewLorentz(p Params) (*Lorentz, error) {
	fn, err := field.Resolve(p.Profile, p.Custom)
	if err != nil {
		return nil, configErr("%v", err)
	}
	if p.Mass == 0 {
		return nil, configErr("mass must be non-zero")
	}
	return &Lorentz{qm: p.Charge / p.Mass, dt: p.Dt, field: fn}, nil
}

// Derive returns dr = v*dt and dv = (q/m)(v x B + E)*dt with the field
// sampled at r.
func (l *Lorentz) Derive(r, v r3.Vec) (dr, dv r3.Vec) {
	s := l.field(r)
	force := r3.Add(r3.Cross(v, s.Magnetic), s.Electric)
	dv = r3.Scale(l.qm*l.dt, force)
	dr = r3.Scale(l.dt, v)
	return dr, dv
}

// Field exposes the resolved field function.
func (l *Lorentz) Field() field.Func { return l.field }
