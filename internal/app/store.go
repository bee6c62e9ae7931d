package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/inventory-pos/internal/storage"
	"github.com/xenking/inventory-pos/internal/storage/jsonfile"
	"github.com/xenking/inventory-pos/internal/storage/memory"
	"github.com/xenking/inventory-pos/internal/storage/postgres"
)

// OpenStore builds the store selected by cfg.Driver. The returned close
// function releases backend resources and is never nil.
func OpenStore(ctx context.Context, cfg StorageConfig) (storage.Store, func(), error) {
	lg := zctx.From(ctx)
	switch cfg.Driver {
	case DriverFile, "":
		lg.Info("Using file store", zap.String("path", cfg.Path))
		return jsonfile.New(cfg.Path), func() {}, nil
	case DriverMemory:
		lg.Info("Using in-memory store")
		return memory.New(nil), func() {}, nil
	case DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		lg.Info("Using postgres store")
		return postgres.NewStore(pool), pool.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
