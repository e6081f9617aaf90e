package repository

import (
	"context"

	"ForecastOps/internal/domain/models"
)

type TickerRepository interface {
	List(ctx context.Context) ([]*models.Ticker, error)
	Get(ctx context.Context, symbol string) (*models.Ticker, error) // models.ErrNotFound when missing
	Create(ctx context.Context, t *models.Ticker) error             // models.ErrDuplicate on conflict
	Delete(ctx context.Context, symbol string) error                // cascades to children
	Count(ctx context.Context) (int, error)
}

type ModelRepository interface {
	ListByTicker(ctx context.Context, symbol string) ([]*models.CandidateModel, error)
	// Deploy sets the ticker's current model and flips candidate statuses.
	// Returns the previously deployed model, if any.
	Deploy(ctx context.Context, symbol, model string) (*string, error)
}

type ForecastRepository interface {
	// ListByTicker returns up to horizon points ordered by date ascending.
	ListByTicker(ctx context.Context, symbol string, horizon int) ([]*models.ForecastPoint, error)
}

type LogRepository interface {
	Append(ctx context.Context, l *models.Log) error
	// List returns entries newest first, optionally filtered by ticker.
	List(ctx context.Context, symbol string, limit int) ([]*models.Log, error)
}

type SettingsRepository interface {
	// Get returns the singleton row, creating it with defaults when absent.
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, s *models.Settings) error
}

type PipelineRunRepository interface {
	Create(ctx context.Context, run *models.PipelineRun) error // assigns run.ID
	Get(ctx context.Context, id int64) (*models.PipelineRun, error)
	// Latest returns the most recent run for a ticker, models.ErrNotFound
	// when the ticker has never run.
	Latest(ctx context.Context, symbol string) (*models.PipelineRun, error)
	Transition(ctx context.Context, id int64, status, stage string, progress float64, message string, runErr *string) error
}

// Finalizer reconciles training artifacts into the primary store as one
// atomic unit: candidate models and forecast points replaced, ticker
// rollups updated, current model switched only when autoDeploy is set.
type Finalizer interface {
	Finalize(ctx context.Context, symbol string, artifacts *models.TrainingArtifacts, autoDeploy bool) error
}

// ArtifactStore reads what the external training job wrote for one run.
type ArtifactStore interface {
	Init(ctx context.Context) error
	Load(ctx context.Context, symbol string, runID int64) (*models.TrainingArtifacts, error)
	Health(ctx context.Context) error
	Close() error
}

// EventPublisher emits lifecycle events for external subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event *models.PipelineEvent) error
	Close() error
}

// Trainer runs the external training job phases for a ticker.
type Trainer interface {
	// Check verifies the job's prerequisites are in place.
	Check() error
	RunEDA(ctx context.Context, symbol string, runID int64) error
	RunExperiments(ctx context.Context, symbol string, runID int64) error
}

type Metrics interface {
	RecordRunStarted()
	RecordRunFinished(status string, seconds float64)
	RecordDeploy(model string)
	RecordError(kind string)
	RecordStoreLatency(op string, seconds float64)
	SetTickersTracked(n int)
}
