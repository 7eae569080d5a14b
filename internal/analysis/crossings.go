package analysis

import (
	"math"

	"github.com/san-kum/testparticle/internal/dynamo"
)

// Crossings returns the linearly interpolated times at which the selected
// component crosses level going upward.
func Crossings(tr *dynamo.Trajectory, sel Selector, level float64) []float64 {
	times := make([]float64, 0)
	prev := sel(tr.State(0))
	for i := 1; i < tr.Len(); i++ {
		curr := sel(tr.State(i))
		if prev < level && curr >= level {
			frac := (level - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			t0, t1 := tr.Time(i-1), tr.Time(i)
			times = append(times, t0+frac*(t1-t0))
		}
		prev = curr
	}
	return times
}

// MeanPeriod is the average spacing of successive crossing times.
func MeanPeriod(times []float64) (float64, bool) {
	if len(times) < 2 {
		return 0, false
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1), true
}
