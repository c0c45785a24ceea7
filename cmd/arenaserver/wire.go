//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/binary-boxer/internal/config"
)

func initializeApp(ctx context.Context, cfg config.Config) (*app, func(), error) {
	wire.Build(
		provideLogger,
		provideCatalog,
		provideStores,
		provideBroadcaster,
		provideRoller,
		provideService,
		provideApp,
	)
	return nil, nil, nil
}
