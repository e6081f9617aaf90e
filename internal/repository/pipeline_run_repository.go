package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/postgres"

	"github.com/jackc/pgx/v5"
)

const runColumns = `id, ticker, status, stage, progress, message, started_at, updated_at, error`

// PostgresPipelineRunRepository persists pipeline runs in PostgreSQL.
type PostgresPipelineRunRepository struct {
	db *postgres.Client
}

// NewPostgresPipelineRunRepository creates a new pipeline run repository.
func NewPostgresPipelineRunRepository(db *postgres.Client) *PostgresPipelineRunRepository {
	return &PostgresPipelineRunRepository{db: db}
}

func (r *PostgresPipelineRunRepository) Create(ctx context.Context, run *models.PipelineRun) error {
	now := time.Now().UTC()
	run.StartedAt = now
	run.UpdatedAt = now

	query := `
		INSERT INTO pipeline_runs (ticker, status, stage, progress, message, started_at, updated_at, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.Pool().QueryRow(ctx, query,
		run.Ticker, run.Status, run.Stage, run.Progress, run.Message,
		run.StartedAt, run.UpdatedAt, run.Error,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("create pipeline run: %w", err)
	}
	return nil
}

func (r *PostgresPipelineRunRepository) Get(ctx context.Context, id int64) (*models.PipelineRun, error) {
	query := fmt.Sprintf(`SELECT %s FROM pipeline_runs WHERE id = $1`, runColumns)

	run, err := scanRun(r.db.Pool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pipeline run: %w", err)
	}
	return run, nil
}

func (r *PostgresPipelineRunRepository) Latest(ctx context.Context, symbol string) (*models.PipelineRun, error) {
	query := fmt.Sprintf(`SELECT %s FROM pipeline_runs WHERE ticker = $1 ORDER BY id DESC LIMIT 1`, runColumns)

	run, err := scanRun(r.db.Pool().QueryRow(ctx, query, symbol))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest pipeline run: %w", err)
	}
	return run, nil
}

func (r *PostgresPipelineRunRepository) Transition(ctx context.Context, id int64, status, stage string, progress float64, message string, runErr *string) error {
	query := `
		UPDATE pipeline_runs
		SET status = $2, stage = $3, progress = $4, message = $5, error = $6, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Pool().Exec(ctx, query, id, status, stage, progress, message, runErr)
	if err != nil {
		return fmt.Errorf("transition pipeline run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanRun(row pgx.Row) (*models.PipelineRun, error) {
	run := &models.PipelineRun{}
	err := row.Scan(
		&run.ID, &run.Ticker, &run.Status, &run.Stage, &run.Progress,
		&run.Message, &run.StartedAt, &run.UpdatedAt, &run.Error,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}
