package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/angelmondragon/inventory/internal/inventory"
	"github.com/angelmondragon/inventory/pkg/config"
	"github.com/angelmondragon/inventory/pkg/db"
	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/angelmondragon/inventory/pkg/migrate"
	pkgmongo "github.com/angelmondragon/inventory/pkg/mongo"
	"go.uber.org/multierr"
)

// Backend is the opened inventory store plus the connections behind it.
type Backend struct {
	Store   inventory.Store
	Name    string
	closers []io.Closer
}

// Open connects the store selected by cfg.Store.Backend. Relational backends
// run the embedded migrations when migrate.MaybeRunDev says so.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	b := &Backend{Name: cfg.Store.Backend}
	ctx = logg.WithField(ctx, "store_backend", b.Name)

	switch cfg.Store.Backend {
	case config.StoreBackendPostgres, config.StoreBackendSQLite:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		b.closers = append(b.closers, client)

		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(fmt.Errorf("run migrations: %w", err), b.Close())
		}
		store, err := inventory.NewGormStore(client)
		if err != nil {
			return nil, multierr.Append(err, b.Close())
		}
		b.Store = store

	case config.StoreBackendMongo:
		client, err := pkgmongo.New(ctx, cfg.Mongo, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap mongo: %w", err)
		}
		b.closers = append(b.closers, client)

		store, err := inventory.NewMongoStore(client)
		if err != nil {
			return nil, multierr.Append(err, b.Close())
		}
		b.Store = store

	case config.StoreBackendMemory:
		b.Store = inventory.NewMemoryStore()
		logg.Warn(ctx, "memory store selected; data is lost on restart")

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}

	logg.Info(ctx, "inventory store ready")
	return b, nil
}

// Close releases every connection the backend opened.
func (b *Backend) Close() error {
	var errs error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, b.closers[i].Close())
	}
	b.closers = nil
	return errs
}
