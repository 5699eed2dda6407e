//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SentinelFeed/pkg/config"
	"SentinelFeed/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Backend and feed core
		ProvideBackend,
		ProvideProber,
		ProvideLiveFetcher,
		ProvideAlertSimulator,
		ProvideStatsDrifter,
		ProvideFeedState,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRedisCache,

		// Sinks
		ProvideAlertIndex,
		ProvideFeedSinks,
		ProvideSinkPipeline,

		// Use cases
		ProvideFeedController,

		// Delivery
		ProvideRateLimiter,
		ProvideFeedHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
