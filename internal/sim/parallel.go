package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent loop for one seed.
type Factory func(seed int64) (*Loop, error)

// Ensemble runs several headless simulations that differ only in seed.
// Every run owns its own loop, so the single-writer rule holds per run.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// Run simulates steps ticks for every seed. The first failure cancels the
// remaining runs.
func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			l, err := e.factory(e.seedStart + int64(i))
			if err != nil {
				return err
			}
			results[i], err = l.Simulate(ctx, steps)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
