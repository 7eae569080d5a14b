package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Sweep runs one independent trajectory per initial state. Runs execute
// concurrently on at most workers goroutines (GOMAXPROCS when workers < 1);
// each run is itself sequential. The integrator must be safe for
// concurrent use. Results are index-aligned with states.
func Sweep(ctx context.Context, integrator Integrator, p Params, states []State, workers int) ([]*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Trajectory, len(states))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, x0 := range states {
		i, x0 := i, x0
		g.Go(func() error {
			tr, err := New(integrator).Run(gctx, p, x0)
			if err != nil {
				return err
			}
			results[i] = tr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
