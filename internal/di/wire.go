//go:build wireinject
// +build wireinject

package di

import (
	"EstatePulse/pkg/config"
	"EstatePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaConsumer,

		// Repositories and feed
		ProvideSnapshotStore,
		ProvideEconomicFeed,

		// Use cases
		ProvideDashboardLoader,
		ProvideRefresher,
		ProvideIngestHandler,

		// Delivery
		ProvideHub,
		ProvideNotifier,
		ProvideDashboardHandler,
		ProvidePagesHandler,
		ProvideHandlers,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
