package metrics

import (
	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// Report summarises a finished run. Values derived from the field assume
// the field at the initial position is representative.
type Report struct {
	Samples          int
	Duration         float64
	MaxEnergyDrift   float64
	FinalEnergyDrift float64
	Diverged         bool
	DivergedAt       int
	Gyroradius       float64
	GyroPeriod       float64
	Drift            r3.Vec
}

func Summarize(tr *dynamo.Trajectory, p dynamo.Params) Report {
	rep := Report{
		Samples:    tr.Len(),
		Duration:   tr.FinalTime(),
		DivergedAt: -1,
	}

	dev := EnergyDeviation(tr)
	rep.FinalEnergyDrift = dev[len(dev)-1]
	rep.MaxEnergyDrift = MaxEnergyDeviation(tr)
	rep.DivergedAt, rep.Diverged = Divergence(tr)

	fn, err := field.Resolve(p.Profile, p.Custom)
	if err != nil {
		return rep
	}
	s := fn(tr.Initial().Position)
	rep.Gyroradius = Gyroradius(tr.Initial().Velocity, s, p.Charge, p.Mass)
	rep.GyroPeriod = GyroPeriod(s, p.Charge, p.Mass)
	rep.Drift = DriftVelocity(tr, s, p.Charge, p.Mass)
	return rep
}

// Values flattens the report for printing and run metadata.
func (r Report) Values() map[string]float64 {
	diverged := 0.0
	if r.Diverged {
		diverged = 1
	}
	return map[string]float64{
		"max_energy_drift":   r.MaxEnergyDrift,
		"final_energy_drift": r.FinalEnergyDrift,
		"diverged":           diverged,
		"gyroradius":         r.Gyroradius,
		"gyro_period":        r.GyroPeriod,
		"drift_x":            r.Drift.X,
		"drift_y":            r.Drift.Y,
		"drift_z":            r.Drift.Z,
	}
}
