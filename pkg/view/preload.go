package view

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Preload loads every lazy concurrently and returns the first error.
// Pages that load successfully stay cached even when another one fails.
func Preload(ctx context.Context, lazies ...*Lazy) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range lazies {
		g.Go(func() error {
			_, err := l.Resolve(gctx)
			return err
		})
	}
	return g.Wait()
}
