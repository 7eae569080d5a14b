package dynamo

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Trajectory is the full time series of one run. Storage is sized from
// the step count up front and each index is written once; after Run
// returns the trajectory is read-only.
type Trajectory struct {
	states []State
	times  []float64
}

func newTrajectory(n int) *Trajectory {
	return &Trajectory{
		states: make([]State, n),
		times:  make([]float64, n),
	}
}

// RestoreTrajectory rebuilds a trajectory from persisted columns.
func RestoreTrajectory(states []State, times []float64) (*Trajectory, error) {
	if len(states) != len(times) {
		return nil, fmt.Errorf("dynamo: %d states but %d times", len(states), len(times))
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("dynamo: empty trajectory")
	}
	tr := newTrajectory(len(states))
	copy(tr.states, states)
	copy(tr.times, times)
	return tr, nil
}

func (tr *Trajectory) set(i int, s State, t float64) {
	tr.states[i] = s
	tr.times[i] = t
}

func (tr *Trajectory) Len() int { return len(tr.states) }

func (tr *Trajectory) State(i int) State { return tr.states[i] }
func (tr *Trajectory) Position(i int) r3.Vec { return tr.states[i].Position }
func (tr *Trajectory) Velocity(i int) r3.Vec { return tr.states[i].Velocity }
func (tr *Trajectory) Time(i int) float64 { return tr.times[i] }
func (tr *Trajectory) Initial() State { return tr.states[0] }
func (tr *Trajectory) Final() State { return tr.states[len(tr.states)-1] }
func (tr *Trajectory) FinalTime() float64 { return tr.times[len(tr.times)-1] }

// Times returns a copy of the time column.
func (tr *Trajectory) Times() []float64 {
	out := make([]float64, len(tr.times))
	copy(out, tr.times)
	return out
}

// States returns a copy of the state column.
func (tr *Trajectory) States() []State {
	out := make([]State, len(tr.states))
	copy(out, tr.states)
	return out
}

// Component extracts one scalar series; sel picks it out of a state.
func (tr *Trajectory) Component(sel func(State) float64) []float64 {
	out := make([]float64, len(tr.states))
	for i, s := range tr.states {
		out[i] = sel(s)
	}
	return out
}
