package di

import (
	"context"
	"fmt"
	"time"

	domrepo "ForecastOps/internal/domain/repository"
	"ForecastOps/internal/handler/api"
	internalrepo "ForecastOps/internal/repository"
	"ForecastOps/internal/service/cache"
	"ForecastOps/internal/service/trainer"
	"ForecastOps/internal/usecase"
	pkgch "ForecastOps/pkg/clickhouse"
	"ForecastOps/pkg/config"
	xhttp "ForecastOps/pkg/http"
	pkgkafka "ForecastOps/pkg/kafka"
	applogger "ForecastOps/pkg/logger"
	"ForecastOps/pkg/metrics"
	"ForecastOps/pkg/postgres"
	"ForecastOps/pkg/queue"
	"ForecastOps/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lgr, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return lgr, nil
}

// ProvidePostgresClient creates the primary store client, ensures the
// schema and optionally seeds demo data.
func ProvidePostgresClient(cfg *config.Config, lgr *applogger.Logger) (*postgres.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := postgres.NewClient(ctx,
		postgres.WithHost(cfg.Postgres.Host),
		postgres.WithPort(cfg.Postgres.Port),
		postgres.WithDatabase(cfg.Postgres.Database),
		postgres.WithCredentials(cfg.Postgres.User, cfg.Postgres.Password),
		postgres.WithSSLMode(cfg.Postgres.SSLMode),
		postgres.WithMaxConnections(cfg.Postgres.MaxConns, cfg.Postgres.MinConns),
		postgres.WithConnLifetime(cfg.Postgres.ConnLifetime),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		client.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	if cfg.Postgres.SeedSampleData {
		if err := internalrepo.NewSeeder(client, lgr).Seed(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("postgres seed: %w", err)
		}
	}

	return client, nil
}

// ProvideClickHouseClient creates the client backing the artifact store.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideArtifactStore creates the training artifact store and ensures
// its schema.
func ProvideArtifactStore(chClient *pkgch.Client) (domrepo.ArtifactStore, error) {
	store := internalrepo.NewCHArtifactStore(chClient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("artifact schema: %w", err)
	}

	return store, nil
}

// ProvideRedisQueue creates the Redis-backed job queue. This process
// runs both the submit side and the workers.
func ProvideRedisQueue(cfg *config.Config, lgr *applogger.Logger) *queue.RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return queue.NewRedisQueue(lgr,
		&queue.QueueConfig{
			Workers:    cfg.Pipeline.Workers,
			RetryLimit: 3,
			RetryDelay: 10 * time.Second,
		},
		client,
		queue.ModeProducerConsumer,
		queue.WithKeyPrefix(cfg.Pipeline.QueuePrefix),
	)
}

// ProvideQueueService exposes the queue's submit side to use cases.
func ProvideQueueService(q *queue.RedisQueue) queue.QueueService {
	return q
}

// ProvideEventPublisher creates the lifecycle event publisher; a no-op
// when Kafka is disabled.
func ProvideEventPublisher(cfg *config.Config) (domrepo.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopEventPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideTrainer creates the notebook runner executing the Python
// training stages.
func ProvideTrainer(cfg *config.Config, lgr *applogger.Logger) domrepo.Trainer {
	return trainer.NewRunner(lgr, cfg.Pipeline.NotebooksDir,
		trainer.WithCommand(cfg.Pipeline.RunnerCmd),
		trainer.WithPhaseTimeout(cfg.Pipeline.PhaseTimeout),
	)
}

// ProvideTickerRepository creates the Postgres ticker repository.
func ProvideTickerRepository(pg *postgres.Client) domrepo.TickerRepository {
	return internalrepo.NewPostgresTickerRepository(pg)
}

// ProvideModelRepository creates the Postgres candidate model repository.
func ProvideModelRepository(pg *postgres.Client) domrepo.ModelRepository {
	return internalrepo.NewPostgresModelRepository(pg)
}

// ProvideForecastRepository creates the Postgres forecast repository.
func ProvideForecastRepository(pg *postgres.Client) domrepo.ForecastRepository {
	return internalrepo.NewPostgresForecastRepository(pg)
}

// ProvideLogRepository creates the Postgres audit log repository.
func ProvideLogRepository(pg *postgres.Client) domrepo.LogRepository {
	return internalrepo.NewPostgresLogRepository(pg)
}

// ProvideSettingsRepository creates the Postgres settings repository.
func ProvideSettingsRepository(pg *postgres.Client) domrepo.SettingsRepository {
	return internalrepo.NewPostgresSettingsRepository(pg)
}

// ProvidePipelineRunRepository creates the Postgres run repository.
func ProvidePipelineRunRepository(pg *postgres.Client) domrepo.PipelineRunRepository {
	return internalrepo.NewPostgresPipelineRunRepository(pg)
}

// ProvideFinalizer creates the transactional artifact finalizer.
func ProvideFinalizer(pg *postgres.Client) domrepo.Finalizer {
	return internalrepo.NewPostgresFinalizer(pg)
}

// ProvideDispatcher creates the pipeline dispatcher use case.
func ProvideDispatcher(
	tickers domrepo.TickerRepository,
	runs domrepo.PipelineRunRepository,
	logs domrepo.LogRepository,
	q queue.QueueService,
	events domrepo.EventPublisher,
	lgr *applogger.Logger,
) *usecase.PipelineDispatcher {
	return usecase.NewPipelineDispatcher(tickers, runs, logs, q, events, lgr)
}

// ProvideForecastUseCase creates the forecast read use case.
func ProvideForecastUseCase(
	tickers domrepo.TickerRepository,
	forecasts domrepo.ForecastRepository,
	cfg *config.Config,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(tickers, forecasts, cache.NewTTLCache(), cfg.Forecast.CacheTTL)
}

// ProvideExecutor creates the pipeline executor running on the queue
// workers.
func ProvideExecutor(
	runs domrepo.PipelineRunRepository,
	tr domrepo.Trainer,
	artifacts domrepo.ArtifactStore,
	finalizer domrepo.Finalizer,
	settings domrepo.SettingsRepository,
	forecasts *usecase.ForecastUseCase,
	events domrepo.EventPublisher,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *usecase.PipelineExecutor {
	return usecase.NewPipelineExecutor(runs, tr, artifacts, finalizer, settings, forecasts, events, m, lgr)
}

// ProvideTickerUseCase creates the ticker use case.
func ProvideTickerUseCase(
	tickers domrepo.TickerRepository,
	candidates domrepo.ModelRepository,
	logs domrepo.LogRepository,
	dispatcher *usecase.PipelineDispatcher,
	forecasts *usecase.ForecastUseCase,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *usecase.TickerUseCase {
	return usecase.NewTickerUseCase(tickers, candidates, logs, dispatcher, forecasts, m, lgr)
}

// ProvideModelsUseCase creates the candidate model use case.
func ProvideModelsUseCase(
	tickers domrepo.TickerRepository,
	candidates domrepo.ModelRepository,
	logs domrepo.LogRepository,
	events domrepo.EventPublisher,
	m domrepo.Metrics,
	lgr *applogger.Logger,
) *usecase.ModelsUseCase {
	return usecase.NewModelsUseCase(tickers, candidates, logs, events, m, lgr)
}

// ProvideLogsUseCase creates the audit log use case.
func ProvideLogsUseCase(logs domrepo.LogRepository) *usecase.LogsUseCase {
	return usecase.NewLogsUseCase(logs)
}

// ProvideSettingsUseCase creates the settings use case.
func ProvideSettingsUseCase(settings domrepo.SettingsRepository) *usecase.SettingsUseCase {
	return usecase.NewSettingsUseCase(settings)
}

// ProvidePipelineStatus creates the run status use case.
func ProvidePipelineStatus(
	tickers domrepo.TickerRepository,
	runs domrepo.PipelineRunRepository,
) *usecase.PipelineStatus {
	return usecase.NewPipelineStatus(tickers, runs)
}

// ProvidePipelineJob binds the executor to the queue job type.
func ProvidePipelineJob(dispatcher *usecase.PipelineDispatcher, executor *usecase.PipelineExecutor) queue.Job {
	return dispatcher.Job(executor)
}

// ProvideHandler creates the REST API handler.
func ProvideHandler(
	lgr *applogger.Logger,
	tickers *usecase.TickerUseCase,
	candidates *usecase.ModelsUseCase,
	forecasts *usecase.ForecastUseCase,
	logs *usecase.LogsUseCase,
	settings *usecase.SettingsUseCase,
	dispatcher *usecase.PipelineDispatcher,
	status *usecase.PipelineStatus,
) xhttp.Handler {
	return api.NewHandler(lgr, tickers, candidates, forecasts, logs, settings, dispatcher, status)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	handler xhttp.Handler,
	q *queue.RedisQueue,
	pipelineJob queue.Job,
	pg *postgres.Client,
	artifacts domrepo.ArtifactStore,
	events domrepo.EventPublisher,
) *server.App {
	return server.New(cfg, lgr, handler, q, pipelineJob, pg, artifacts, events)
}
