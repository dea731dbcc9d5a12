package sim

import (
	"context"

	"github.com/san-kum/ballsim/internal/physics"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent headless simulations with consecutive seeds.
type Ensemble struct {
	base      Options
	numRuns   int
	seedStart int64
}

func NewEnsemble(base Options, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart}
}

type RunResult struct {
	Seed  int64
	Ticks uint64
	Final []physics.Body
}

// Run starts count balls on a width x height table in every member and
// steps each one ticks times. observe, when non-nil, supplies the tick
// observers for run i. Telemetry is disabled for ensemble members.
func (e *Ensemble) Run(ctx context.Context, count, ticks int, width, height float64, observe func(run int) []Observer) ([]RunResult, error) {
	const op = "ensemble"
	if e.numRuns <= 0 {
		return nil, errArgument(op, "run count must be positive")
	}
	if ticks < 0 {
		return nil, errArgument(op, "negative tick count")
	}

	results := make([]RunResult, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			opts := e.base
			opts.TickInterval = 0
			opts.Store = nil
			opts.Seed = e.seedStart + int64(i)
			if observe != nil {
				opts.Observers = observe(i)
			}

			s := New(opts)
			defer s.Dispose()

			if err := s.Start(count, width, height, func(physics.Vec2, *Ball) {}); err != nil {
				return err
			}

			var last TickStats
			for t := 0; t < ticks; t++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				last = s.Step()
			}

			results[i] = RunResult{Seed: opts.Seed, Ticks: last.Tick, Final: s.Snapshot()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
