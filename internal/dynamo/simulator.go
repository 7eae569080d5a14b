package dynamo

import (
	"context"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DefaultProgressInterval is the number of steps between observer calls.
const DefaultProgressInterval = 100

// Simulator drives one integrator over a whole run.
type Simulator struct {
	integrator    Integrator
	observers     []Observer
	progressEvery int
	logger        kitlog.Logger
}

func New(integrator Integrator) *Simulator {
	return &Simulator{
		integrator:    integrator,
		observers:     make([]Observer, 0),
		progressEvery: DefaultProgressInterval,
		logger:        kitlog.NewNopLogger(),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetProgressInterval sets how many steps pass between observer calls.
// Values below 1 are treated as 1.
func (s *Simulator) SetProgressInterval(n int) {
	if n < 1 {
		n = 1
	}
	s.progressEvery = n
}

func (s *Simulator) SetLogger(l kitlog.Logger) {
	if l == nil {
		l = kitlog.NewNopLogger()
	}
	s.logger = l
}

// Run integrates p.Steps-1 steps from x0. The returned trajectory holds
// exactly p.Steps samples with Time(i) == i*p.Dt. Non-finite states are
// kept as computed. Invalid parameters fail before any stepping.
func (s *Simulator) Run(ctx context.Context, p Params, x0 State) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sys, err := NewLorentz(p)
	if err != nil {
		return nil, err
	}

	logger := kitlog.With(s.logger, "profile", p.Profile, "dt", p.Dt, "steps", p.Steps)
	level.Debug(logger).Log("msg", "run start")

	tr := newTrajectory(p.Steps)
	tr.set(0, x0, 0)

	x := x0
	diverged := !x0.IsValid()
	if diverged {
		level.Warn(logger).Log("msg", "initial state is not finite")
	}

	for i := 1; i < p.Steps; i++ {
		select {
		case <-ctx.Done():
			return nil, &RunError{Step: i, Time: float64(i-1) * p.Dt, Wrapped: ErrCanceled}
		default:
		}

		x = s.integrator.Step(sys, x)
		t := float64(i) * p.Dt
		tr.set(i, x, t)

		if !diverged && !x.IsValid() {
			diverged = true
			level.Warn(logger).Log("msg", "state diverged", "step", i, "t", t)
		}

		if len(s.observers) > 0 && (i%s.progressEvery == 0 || i == p.Steps-1) {
			for _, obs := range s.observers {
				obs.OnStep(i, p.Steps-1, x, t)
			}
		}
	}

	level.Debug(logger).Log("msg", "run complete", "diverged", diverged)
	return tr, nil
}
