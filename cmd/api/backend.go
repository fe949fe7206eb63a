package main

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/jravahfoods/storefront/api/controllers"
	"github.com/jravahfoods/storefront/internal/storage"
	"github.com/jravahfoods/storefront/internal/storage/file"
	"github.com/jravahfoods/storefront/internal/storage/memory"
	"github.com/jravahfoods/storefront/internal/storage/redisstore"
	"github.com/jravahfoods/storefront/internal/storage/sqlstore"
	"github.com/jravahfoods/storefront/pkg/config"
	"github.com/jravahfoods/storefront/pkg/db"
	"github.com/jravahfoods/storefront/pkg/enums"
	"github.com/jravahfoods/storefront/pkg/logger"
	"github.com/jravahfoods/storefront/pkg/migrate"
	"github.com/jravahfoods/storefront/pkg/redis"
)

// backend is the cart storage chosen by JRAVAH_STORAGE_DRIVER together with
// whatever connections it owns.
type backend struct {
	storage.Backend
	ready   map[string]controllers.Pinger
	closers []func() error
}

func (b *backend) Close() error {
	var err error
	for i := len(b.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, b.closers[i]())
	}
	return err
}

func openBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backend, error) {
	driver, err := enums.ParseStorageDriver(cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}
	ctx = logg.WithField(ctx, "storage_driver", driver.String())

	b := &backend{ready: map[string]controllers.Pinger{}}
	switch driver {
	case enums.StorageDriverMemory:
		b.Backend = memory.New()

	case enums.StorageDriverFile:
		store, err := file.New(cfg.Storage.Dir, logg)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		b.Backend = store
		b.ready["storage"] = store

	case enums.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		store, err := redisstore.New(client, 0, logg)
		if err != nil {
			return nil, multierr.Append(err, b.Close())
		}
		b.Backend = store
		b.ready["redis"] = store

	case enums.StorageDriverSQL:
		if cfg.FeatureFlags.UseSQLite {
			cfg.DB.Driver = db.DriverSQLite
		}
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(fmt.Errorf("dev migrations: %w", err), b.Close())
		}
		store, err := sqlstore.New(client.DB())
		if err != nil {
			return nil, multierr.Append(err, b.Close())
		}
		b.Backend = store
		b.ready["database"] = store

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	logg.Info(ctx, "cart storage ready")
	return b, nil
}
