package metrics

import (
	"math"

	"github.com/san-kum/testparticle/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// KineticEnergy is |v|^2, the unnormalised measure used for drift checks.
func KineticEnergy(v r3.Vec) float64 {
	return r3.Norm2(v)
}

// EnergyDeviation returns (E_i - E_0)/E_0 for every sample. A particle at
// rest has no relative deviation and yields NaN entries.
func EnergyDeviation(tr *dynamo.Trajectory) []float64 {
	e0 := KineticEnergy(tr.Velocity(0))
	out := make([]float64, tr.Len())
	for i := range out {
		out[i] = (KineticEnergy(tr.Velocity(i)) - e0) / e0
	}
	return out
}

// MaxEnergyDeviation is the largest |ΔE/E0| over the trajectory. It is NaN
// once the trajectory has diverged.
func MaxEnergyDeviation(tr *dynamo.Trajectory) float64 {
	dev := EnergyDeviation(tr)
	for i, d := range dev {
		dev[i] = math.Abs(d)
	}
	if floats.HasNaN(dev) {
		return math.NaN()
	}
	return floats.Max(dev)
}

// Divergence returns the first index whose state is not finite.
func Divergence(tr *dynamo.Trajectory) (int, bool) {
	for i := 0; i < tr.Len(); i++ {
		if !tr.State(i).IsValid() {
			return i, true
		}
	}
	return -1, false
}
