package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/config"
	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
	"github.com/cory-johannsen/binary-boxer/internal/httpapi"
	"github.com/cory-johannsen/binary-boxer/internal/observability"
	"github.com/cory-johannsen/binary-boxer/internal/server"
	"github.com/cory-johannsen/binary-boxer/internal/storage/postgres"
)

// feedBuffer is the per-subscriber event buffer of the community stream.
const feedBuffer = 64

func provideLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := observability.NewLogger(cfg.Logging, zap.String("service", "arenaserver"))
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, nil
}

func provideCatalog(cfg config.Config) (*ruleset.Catalog, error) {
	return ruleset.LoadCatalog(cfg.Arena.CatalogPath)
}

// provideStores opens the configured backend. The cleanup func releases the
// database pool when postgres is selected.
func provideStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (arena.Stores, func(), error) {
	switch cfg.Arena.Storage {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return arena.Stores{}, nil, err
		}
		logger.Info("connected to postgres",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
		)
		return pool.Stores(nil), pool.Close, nil
	default:
		logger.Warn("using in-memory storage; records are lost on restart")
		return arena.NewMemoryStore(nil).Stores(), func() {}, nil
	}
}

func provideBroadcaster(logger *zap.Logger) *arena.Broadcaster {
	return arena.NewBroadcaster(feedBuffer, logger)
}

func provideRoller(logger *zap.Logger) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
}

func provideService(cat *ruleset.Catalog, stores arena.Stores, feed *arena.Broadcaster, roller *dice.Roller, cfg config.Config, logger *zap.Logger) *arena.Service {
	return arena.NewService(cat, stores, feed, roller, cfg.Arena, logger)
}

func provideApp(cfg config.Config, svc *arena.Service, feed *arena.Broadcaster, logger *zap.Logger) *app {
	lc := server.NewLifecycle(logger)
	lc.Add("http", server.NewHTTPService(cfg.Server, httpapi.NewServer(svc, feed, logger).Routes(), logger))
	lc.Add("fight-sweeper", server.NewSweeper("fight-expiry", cfg.Arena.SweepInterval, func(ctx context.Context) error {
		_, err := svc.PurgeExpiredFights(ctx)
		return err
	}, logger))
	return &app{lifecycle: lc, logger: logger}
}
