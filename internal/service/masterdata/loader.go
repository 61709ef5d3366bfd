package masterdata

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"printshop/internal/storage"
)

type Source interface {
	FetchItemRoutes(ctx context.Context) ([]storage.ItemRoute, error)
	FetchRouteOperations(ctx context.Context) ([]storage.RouteOperation, error)
	FetchOperationTimes(ctx context.Context) ([]storage.OperationTime, error)
}

// Load читает три справочника параллельно и собирает снимок.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	const op = "service.masterdata.Load"

	var (
		routes []storage.ItemRoute
		ops    []storage.RouteOperation
		times  []storage.OperationTime
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		routes, err = src.FetchItemRoutes(gCtx)
		if err != nil {
			return fmt.Errorf("item routes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ops, err = src.FetchRouteOperations(gCtx)
		if err != nil {
			return fmt.Errorf("route operations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		times, err = src.FetchOperationTimes(gCtx)
		if err != nil {
			return fmt.Errorf("operation times: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return Build(routes, ops, times), nil
}
