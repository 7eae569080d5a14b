package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/testparticle/internal/dynamo"
	"gonum.org/v1/gonum/stat"
)

var ErrTooShort = errors.New("analysis: trajectory too short")

// Selector picks one scalar out of a state.
type Selector func(dynamo.State) float64

var (
	PositionX Selector = func(s dynamo.State) float64 { return s.Position.X }
	PositionY Selector = func(s dynamo.State) float64 { return s.Position.Y }
	PositionZ Selector = func(s dynamo.State) float64 { return s.Position.Z }
	VelocityX Selector = func(s dynamo.State) float64 { return s.Velocity.X }
	VelocityY Selector = func(s dynamo.State) float64 { return s.Velocity.Y }
	VelocityZ Selector = func(s dynamo.State) float64 { return s.Velocity.Z }
)

// Selectors maps component names to selectors.
var Selectors = map[string]Selector{
	"x": PositionX, "y": PositionY, "z": PositionZ,
	"vx": VelocityX, "vy": VelocityY, "vz": VelocityZ,
}

// PowerSpectrum returns |FFT| of the mean-removed samples for bins
// 0..n/2-1. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spec := fft.FFTReal(centred)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// GyroFrequency estimates the dominant angular frequency of a component
// from the peak spectral bin, refined by parabolic interpolation.
func GyroFrequency(tr *dynamo.Trajectory, sel Selector) (float64, error) {
	n := tr.Len()
	if n < 8 {
		return 0, ErrTooShort
	}
	dt := (tr.FinalTime() - tr.Time(0)) / float64(n-1)

	ps := PowerSpectrum(tr.Component(sel))
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}

	bin := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	return 2 * math.Pi * bin / (float64(n) * dt), nil
}
