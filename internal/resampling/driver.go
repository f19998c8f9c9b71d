package resampling

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Driver orchestrates repeated table reconstruction and statistic
// re-evaluation across a fixed-size worker pool. The observed model is
// shared read-only by all workers; each resample's temporary table is
// exclusively owned by one worker and discarded after its statistic is
// extracted.
type Driver struct {
	rng RNGPort
}

// NewDriver creates a driver using the given deterministic RNG source.
func NewDriver(rng RNGPort) *Driver {
	return &Driver{rng: rng}
}

// workerCount resolves the pool size for one run.
func (d *Driver) workerCount(opts Options) int {
	if !opts.Parallel {
		return 1
	}
	if opts.Workers > 0 {
		return opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// run executes fn once per iteration index across the worker pool and
// joins on completion. Iterations are sharded into contiguous blocks, but
// each iteration draws from its own seed-stable substream keyed by the
// global iteration index, so results do not depend on the worker count.
// The first error aborts the whole run; an aborted run surfaces a single
// error and no partial results.
func (d *Driver) run(ctx context.Context, opts Options, fn func(iter int, rng *rand.Rand) error) error {
	workers := d.workerCount(opts)
	total := opts.Resamples
	if workers > total {
		workers = total
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (total + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > total {
			end = total
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			for iter := start; iter < end; iter++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				if err := fn(iter, d.rng.IterationStream(opts.Seed, iter)); err != nil {
					return fmt.Errorf("resample %d: %w", iter, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
