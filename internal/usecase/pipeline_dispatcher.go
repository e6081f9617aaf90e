package usecase

import (
	"context"
	"fmt"

	"ForecastOps/internal/domain/models"
	domrepo "ForecastOps/internal/domain/repository"
	"ForecastOps/pkg/logger"
	"ForecastOps/pkg/queue"
	"ForecastOps/pkg/util"
)

// JobTypePipelineRun is the queue message type for training runs.
const JobTypePipelineRun = "pipeline.run"

// RunJobPayload is what crosses the queue for one training run.
type RunJobPayload struct {
	Ticker string `json:"ticker"`
	RunID  int64  `json:"run_id"`
}

// PipelineDispatcher accepts training requests. It records the run,
// hands it to the queue and returns immediately; execution happens on
// the queue workers.
type PipelineDispatcher struct {
	tickers domrepo.TickerRepository
	runs    domrepo.PipelineRunRepository
	logs    domrepo.LogRepository
	queue   queue.QueueService
	events  domrepo.EventPublisher
	logger  *logger.Logger
}

func NewPipelineDispatcher(
	tickers domrepo.TickerRepository,
	runs domrepo.PipelineRunRepository,
	logs domrepo.LogRepository,
	q queue.QueueService,
	events domrepo.EventPublisher,
	lgr *logger.Logger,
) *PipelineDispatcher {
	return &PipelineDispatcher{
		tickers: tickers,
		runs:    runs,
		logs:    logs,
		queue:   q,
		events:  events,
		logger:  lgr,
	}
}

// Dispatch queues a new training run for an existing ticker.
func (d *PipelineDispatcher) Dispatch(ctx context.Context, symbol string) (*models.RetryPipelineResponse, error) {
	if _, err := d.tickers.Get(ctx, symbol); err != nil {
		return nil, err
	}

	run := &models.PipelineRun{
		Ticker:   symbol,
		Status:   models.RunStatusRunning,
		Stage:    models.StageQueued,
		Progress: 0,
		Message:  "queued",
	}
	if err := d.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	queuedAt := util.FormatTimestamp(run.StartedAt)

	if err := d.logs.Append(ctx, &models.Log{
		Ticker:  symbol,
		Event:   models.EventPipelineRetryRequested,
		Status:  models.LogStatusSuccess,
		Message: fmt.Sprintf("Pipeline retry queued for %s", symbol),
		Details: map[string]interface{}{"queued_at": queuedAt, "run_id": run.ID},
	}); err != nil {
		d.logger.Warn("dispatch audit log failed", logger.String("ticker", symbol), logger.Error(err))
	}

	if err := d.events.Publish(ctx, &models.PipelineEvent{
		Type:      models.EventTypePipelineQueued,
		Ticker:    symbol,
		RunID:     run.ID,
		Timestamp: run.StartedAt,
	}); err != nil {
		d.logger.Warn("queued event publish failed", logger.String("ticker", symbol), logger.Error(err))
	}

	if err := d.queue.PublishMessage(ctx, JobTypePipelineRun, RunJobPayload{Ticker: symbol, RunID: run.ID}); err != nil {
		errMsg := err.Error()
		if terr := d.runs.Transition(ctx, run.ID, models.RunStatusError, models.StageError, 100, "Failed to enqueue", &errMsg); terr != nil {
			d.logger.Error("enqueue failure transition failed",
				logger.Int64("run_id", run.ID), logger.Error(terr))
		}
		return nil, fmt.Errorf("enqueue pipeline run: %w", err)
	}

	d.logger.Info("pipeline run queued",
		logger.String("ticker", symbol), logger.Int64("run_id", run.ID))

	return &models.RetryPipelineResponse{
		Ticker:   symbol,
		Accepted: true,
		QueuedAt: queuedAt,
	}, nil
}

// Job returns a queue job bound to the executor, started at queue
// worker startup.
func (d *PipelineDispatcher) Job(executor *PipelineExecutor) queue.Job {
	return &runPipelineJob{executor: executor, logger: d.logger}
}

type runPipelineJob struct {
	executor *PipelineExecutor
	logger   *logger.Logger
}

func (j *runPipelineJob) Name() string { return "run-pipeline" }
func (j *runPipelineJob) Type() string { return JobTypePipelineRun }

// Handle runs one training pipeline. Domain failures are persisted into
// the run and swallowed here: a failed run is a terminal result, not a
// retryable queue error.
func (j *runPipelineJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RunJobPayload](payload)
	if err != nil {
		j.logger.Error("pipeline job payload invalid", logger.Error(err))
		return nil
	}
	j.executor.Execute(ctx, p.Ticker, p.RunID)
	return nil
}
