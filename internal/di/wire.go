//go:build wireinject
// +build wireinject

package di

import (
	"ForecastOps/pkg/config"
	"ForecastOps/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvidePostgresClient,
		ProvideClickHouseClient,
		ProvideRedisQueue,
		ProvideQueueService,
		ProvideEventPublisher,

		// Repositories
		ProvideTickerRepository,
		ProvideModelRepository,
		ProvideForecastRepository,
		ProvideLogRepository,
		ProvideSettingsRepository,
		ProvidePipelineRunRepository,
		ProvideFinalizer,
		ProvideArtifactStore,

		// Services
		ProvideTrainer,

		// Use cases
		ProvideDispatcher,
		ProvideForecastUseCase,
		ProvideExecutor,
		ProvideTickerUseCase,
		ProvideModelsUseCase,
		ProvideLogsUseCase,
		ProvideSettingsUseCase,
		ProvidePipelineStatus,
		ProvidePipelineJob,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
