package metrics

import (
	"math"

	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// ExBVelocity is the analytic drift E x B / |B|^2.
func ExBVelocity(s field.Sample) r3.Vec {
	b2 := r3.Norm2(s.Magnetic)
	if b2 == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/b2, r3.Cross(s.Electric, s.Magnetic))
}

// GuidingCenter is the centre of the instantaneous cyclotron orbit in a
// locally uniform field s: r + (m/qB^2) (v - vE) x B.
func GuidingCenter(x dynamo.State, s field.Sample, charge, mass float64) r3.Vec {
	b2 := r3.Norm2(s.Magnetic)
	if b2 == 0 || charge == 0 {
		return x.Position
	}
	u := r3.Sub(x.Velocity, ExBVelocity(s))
	return r3.Add(x.Position, r3.Scale(mass/(charge*b2), r3.Cross(u, s.Magnetic)))
}

// DriftVelocity is the guiding-centre displacement between the first and
// last samples divided by the elapsed time.
func DriftVelocity(tr *dynamo.Trajectory, s field.Sample, charge, mass float64) r3.Vec {
	elapsed := tr.FinalTime() - tr.Time(0)
	if elapsed <= 0 {
		return r3.Vec{}
	}
	g0 := GuidingCenter(tr.Initial(), s, charge, mass)
	g1 := GuidingCenter(tr.Final(), s, charge, mass)
	return r3.Scale(1/elapsed, r3.Sub(g1, g0))
}

// Gyroradius is m|v_perp|/(|q||B|).
func Gyroradius(v r3.Vec, s field.Sample, charge, mass float64) float64 {
	b := r3.Norm(s.Magnetic)
	if b == 0 || charge == 0 {
		return math.Inf(1)
	}
	u := r3.Sub(v, ExBVelocity(s))
	return mass * r3.Norm(perpendicular(u, s.Magnetic)) / (math.Abs(charge) * b)
}

// GyroPeriod is 2*pi*m/(|q||B|).
func GyroPeriod(s field.Sample, charge, mass float64) float64 {
	b := r3.Norm(s.Magnetic)
	if b == 0 || charge == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi * mass / (math.Abs(charge) * b)
}

// OrbitRadius measures the distance of every sample from centre in the
// plane perpendicular to axis, returning the mean and the largest
// deviation from that mean.
func OrbitRadius(tr *dynamo.Trajectory, centre, axis r3.Vec) (mean, spread float64) {
	radii := make([]float64, tr.Len())
	for i := range radii {
		radii[i] = r3.Norm(perpendicular(r3.Sub(tr.Position(i), centre), axis))
	}
	mean = stat.Mean(radii, nil)
	for _, r := range radii {
		spread = math.Max(spread, math.Abs(r-mean))
	}
	return mean, spread
}

func perpendicular(v, axis r3.Vec) r3.Vec {
	n2 := r3.Norm2(axis)
	if n2 == 0 {
		return v
	}
	return r3.Sub(v, r3.Scale(r3.Dot(v, axis)/n2, axis))
}
