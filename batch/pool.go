package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns the effective pool size for a requested count:
// GOMAXPROCS when n <= 0, never more than jobs, at least 1.
func Workers(n, jobs int) int {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	return max(1, min(n, jobs))
}

// Map applies fn to every item on at most workers goroutines and returns the
// results in input order.
//
// The first error cancels the context passed to the remaining calls; Map
// then waits for the in-flight calls and returns that error. A cancelled
// parent context is reported the same way.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(ctx context.Context, i int, item T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers, len(items)))
	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, i, items[i])
			if err != nil {
				return err
			}
			out[i] = r

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
