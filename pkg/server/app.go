package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "ForecastOps/internal/domain/repository"
	"ForecastOps/pkg/config"
	xhttp "ForecastOps/pkg/http"
	applogger "ForecastOps/pkg/logger"
	"ForecastOps/pkg/postgres"
	"ForecastOps/pkg/queue"
)

// App encapsulates the application lifecycle: queue workers, HTTP
// server, and the infrastructure clients that need orderly shutdown.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	handler     xhttp.Handler
	queue       *queue.RedisQueue
	pipelineJob queue.Job
	httpServer  *xhttp.Server
	pg          *postgres.Client
	artifacts   domrepo.ArtifactStore
	events      domrepo.EventPublisher
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	lgr *applogger.Logger,
	handler xhttp.Handler,
	q *queue.RedisQueue,
	pipelineJob queue.Job,
	pg *postgres.Client,
	artifacts domrepo.ArtifactStore,
	events domrepo.EventPublisher,
) *App {
	return &App{
		cfg:         cfg,
		logger:      lgr,
		handler:     handler,
		queue:       q,
		pipelineJob: pipelineJob,
		pg:          pg,
		artifacts:   artifacts,
		events:      events,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	// Ship aggregated error logs alongside lifecycle events when the
	// publisher has a broker behind it.
	if pub, ok := a.events.(applogger.Publisher); ok {
		a.logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.Topic + ".errors",
			Publisher:      pub,
		})
	}

	a.queue.RegisterJob(a.pipelineJob)
	if err := a.queue.Start(); err != nil {
		return err
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.logger.Info("application started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Int("pipeline_workers", a.cfg.Pipeline.Workers))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first, then drains the queue workers, then
// closes infrastructure clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.queue.Stop(ctx); err != nil {
		a.logger.Warn("queue stop error", applogger.Error(err))
	}

	a.logger.RemoveCollector()
	if err := a.events.Close(); err != nil {
		a.logger.Warn("event publisher close error", applogger.Error(err))
	}
	if err := a.artifacts.Close(); err != nil {
		a.logger.Warn("artifact store close error", applogger.Error(err))
	}
	a.pg.Close()

	a.logger.Info("shutdown complete")
	return nil
}
