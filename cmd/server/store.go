package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/infrastructure/mongodb"
	"github.com/aryan0dhankhar/claimledger/internal/reliability/retry"
	"github.com/aryan0dhankhar/claimledger/internal/repository/memory"
	"github.com/aryan0dhankhar/claimledger/internal/repository/mongostore"
	"github.com/aryan0dhankhar/claimledger/internal/repository/postgres"
	"github.com/aryan0dhankhar/claimledger/pkg/config"
	"github.com/aryan0dhankhar/claimledger/pkg/database"
)

// backend bundles the repositories of one store driver with its lifecycle
type backend struct {
	users    domain.UserRepository
	expenses domain.ExpenseRepository
	bills    domain.BillRepository
	blobs    domain.BlobStore
	pinger   domain.Pinger
	close    func(context.Context) error
}

// openBackend connects the configured store. Connection attempts are
// retried with backoff here, at startup, and nowhere else.
func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	retryCfg := retry.StartupConfig(cfg.StartupConnectAttempts)

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := retry.Do(ctx, retryCfg, log, "connect mongo", func(ctx context.Context) (*mongodb.Client, error) {
			return mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		})
		if err != nil {
			return nil, err
		}

		db := client.Database()
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Close(context.Background())
			return nil, err
		}

		return &backend{
			users:    mongostore.NewUserRepository(db, log),
			expenses: mongostore.NewExpenseRepository(db, log),
			bills:    mongostore.NewBillRepository(db, log),
			blobs:    mongostore.NewBlobStore(db, log),
			pinger:   client,
			close:    client.Close,
		}, nil

	case config.DriverPostgres:
		pool, err := retry.Do(ctx, retryCfg, log, "connect postgres", func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, &database.Config{
				URL:          cfg.DatabaseURL,
				MaxOpenConns: cfg.DBMaxOpenConns,
			}, log)
		})
		if err != nil {
			return nil, err
		}

		if err := pool.Migrate(ctx); err != nil {
			_ = pool.Close()
			return nil, err
		}

		db := pool.GetDB()
		return &backend{
			users:    postgres.NewUserRepository(db, log),
			expenses: postgres.NewExpenseRepository(db, log),
			bills:    postgres.NewBillRepository(db, log),
			blobs:    postgres.NewBlobStore(db, log),
			pinger:   pool,
			close:    func(context.Context) error { return pool.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &backend{
			users:    store.Users(),
			expenses: store.Expenses(),
			bills:    store.Bills(),
			blobs:    store.Blobs(),
			pinger:   store,
			close:    func(context.Context) error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
