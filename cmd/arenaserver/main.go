// Package main runs the arena HTTP server.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/binary-boxer/internal/config"
	"github.com/cory-johannsen/binary-boxer/internal/server"
)

// app is the assembled server.
type app struct {
	lifecycle *server.Lifecycle
	logger    *zap.Logger
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and ARENA_ environment overrides")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx := context.Background()
	a, cleanup, err := initializeApp(ctx, cfg)
	if err != nil {
		log.Fatalf("initializing arena server: %v", err)
	}

	a.logger.Info("arena server initialized",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage", cfg.Arena.Storage),
		zap.Duration("startup", time.Since(start)),
	)

	runErr := a.lifecycle.Run(ctx)
	cleanup()
	_ = a.logger.Sync()
	if runErr != nil {
		log.Fatalf("arena server: %v", runErr)
	}
}
