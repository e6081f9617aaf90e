package usecase

import (
	"context"
	"fmt"
	"time"

	"ForecastOps/internal/domain/models"
	domrepo "ForecastOps/internal/domain/repository"
	"ForecastOps/pkg/logger"
)

// PipelineExecutor drives one training run through its stages: EDA,
// model experiments, then a single-transaction finalize that reconciles
// the job's artifacts into the primary store.
type PipelineExecutor struct {
	runs      domrepo.PipelineRunRepository
	trainer   domrepo.Trainer
	artifacts domrepo.ArtifactStore
	finalizer domrepo.Finalizer
	settings  domrepo.SettingsRepository
	forecasts *ForecastUseCase
	events    domrepo.EventPublisher
	metrics   domrepo.Metrics
	logger    *logger.Logger
}

func NewPipelineExecutor(
	runs domrepo.PipelineRunRepository,
	trainer domrepo.Trainer,
	artifacts domrepo.ArtifactStore,
	finalizer domrepo.Finalizer,
	settings domrepo.SettingsRepository,
	forecasts *ForecastUseCase,
	events domrepo.EventPublisher,
	metrics domrepo.Metrics,
	lgr *logger.Logger,
) *PipelineExecutor {
	return &PipelineExecutor{
		runs:      runs,
		trainer:   trainer,
		artifacts: artifacts,
		finalizer: finalizer,
		settings:  settings,
		forecasts: forecasts,
		events:    events,
		metrics:   metrics,
		logger:    lgr,
	}
}

// Execute runs the full pipeline for one queued run. Failures are
// persisted into the run record; Execute never panics the worker.
func (e *PipelineExecutor) Execute(ctx context.Context, symbol string, runID int64) {
	start := time.Now()
	e.metrics.RecordRunStarted()

	status := models.RunStatusSuccess
	defer func() {
		e.metrics.RecordRunFinished(status, time.Since(start).Seconds())
	}()

	if err := e.trainer.Check(); err != nil {
		// Missing prerequisite: the run never really started, so the
		// stage stays at queued with zero progress.
		status = models.RunStatusError
		errMsg := err.Error()
		e.transition(ctx, runID, models.RunStatusError, models.StageQueued, 0, "Notebook(s) missing", &errMsg)
		e.publishFailed(ctx, symbol, runID, errMsg)
		return
	}

	if err := e.run(ctx, symbol, runID); err != nil {
		status = models.RunStatusError
		errMsg := err.Error()
		e.transition(ctx, runID, models.RunStatusError, models.StageError, 100, "Failed", &errMsg)
		e.publishFailed(ctx, symbol, runID, errMsg)
		e.logger.Error("pipeline run failed",
			logger.String("ticker", symbol),
			logger.Int64("run_id", runID),
			logger.Error(err))
		return
	}

	e.transition(ctx, runID, models.RunStatusSuccess, models.StageDone, 100, "Completed", nil)
	if err := e.events.Publish(ctx, &models.PipelineEvent{
		Type:      models.EventTypePipelineSucceeded,
		Ticker:    symbol,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		e.logger.Warn("success event publish failed", logger.String("ticker", symbol), logger.Error(err))
	}
	e.logger.Info("pipeline run completed",
		logger.String("ticker", symbol),
		logger.Int64("run_id", runID),
		logger.Duration("elapsed", time.Since(start)))
}

func (e *PipelineExecutor) run(ctx context.Context, symbol string, runID int64) error {
	if err := e.transitionErr(ctx, runID, models.RunStatusRunning, models.StageEDA, 5, "Running EDA/Preprocessing", nil); err != nil {
		return err
	}
	if err := e.trainer.RunEDA(ctx, symbol, runID); err != nil {
		return err
	}

	if err := e.transitionErr(ctx, runID, models.RunStatusRunning, models.StageExperiments, 55, "Running Model Experiments", nil); err != nil {
		return err
	}
	if err := e.trainer.RunExperiments(ctx, symbol, runID); err != nil {
		return err
	}

	if err := e.transitionErr(ctx, runID, models.RunStatusRunning, models.StageFinalize, 90, "Finalizing artifacts", nil); err != nil {
		return err
	}

	loadStart := time.Now()
	artifacts, err := e.artifacts.Load(ctx, symbol, runID)
	e.metrics.RecordStoreLatency("artifact_load", time.Since(loadStart).Seconds())
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	if len(artifacts.Models) == 0 {
		return fmt.Errorf("training job produced no model artifacts for %s run %d", symbol, runID)
	}

	settings, err := e.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err := e.finalizer.Finalize(ctx, symbol, artifacts, settings.EnableAutoDeploy); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	e.forecasts.Invalidate(symbol)
	return nil
}

func (e *PipelineExecutor) transition(ctx context.Context, runID int64, status, stage string, progress float64, message string, runErr *string) {
	if err := e.transitionErr(ctx, runID, status, stage, progress, message, runErr); err != nil {
		e.logger.Error("run transition failed",
			logger.Int64("run_id", runID),
			logger.String("stage", stage),
			logger.Error(err))
	}
}

func (e *PipelineExecutor) transitionErr(ctx context.Context, runID int64, status, stage string, progress float64, message string, runErr *string) error {
	return e.runs.Transition(ctx, runID, status, stage, progress, message, runErr)
}

func (e *PipelineExecutor) publishFailed(ctx context.Context, symbol string, runID int64, errMsg string) {
	if err := e.events.Publish(ctx, &models.PipelineEvent{
		Type:      models.EventTypePipelineFailed,
		Ticker:    symbol,
		RunID:     runID,
		Error:     errMsg,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		e.logger.Warn("failed event publish failed", logger.String("ticker", symbol), logger.Error(err))
	}
}
