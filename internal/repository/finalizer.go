package repository

import (
	"context"
	"fmt"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/postgres"

	"github.com/jackc/pgx/v5"
)

// PostgresFinalizer reconciles training artifacts into the primary store.
// Candidate models and forecast points are replaced wholesale and the
// ticker rollups are refreshed, all inside one transaction so a failed
// run never leaves a half-applied result.
type PostgresFinalizer struct {
	db *postgres.Client
}

// NewPostgresFinalizer creates a new finalizer.
func NewPostgresFinalizer(db *postgres.Client) *PostgresFinalizer {
	return &PostgresFinalizer{db: db}
}

func (f *PostgresFinalizer) Finalize(ctx context.Context, symbol string, artifacts *models.TrainingArtifacts, autoDeploy bool) error {
	if len(artifacts.Models) == 0 {
		return fmt.Errorf("no model artifacts for %s", symbol)
	}
	best := artifacts.Recommended()
	now := time.Now().UTC()

	return f.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM models WHERE ticker = $1`, symbol); err != nil {
			return fmt.Errorf("clear models: %w", err)
		}
		for i := range artifacts.Models {
			m := &artifacts.Models[i]
			status := models.ModelStatusCandidate
			if autoDeploy && m.Model == best.Model {
				status = models.ModelStatusDeployed
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO models (ticker, model, mae, rmse, mape, r2, last_trained_at, status, recommended)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				symbol, m.Model, m.MAE, m.RMSE, m.MAPE, m.R2, now, status, m.Model == best.Model,
			); err != nil {
				return fmt.Errorf("insert model %s: %w", m.Model, err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM forecast_points WHERE ticker = $1`, symbol); err != nil {
			return fmt.Errorf("clear forecast points: %w", err)
		}
		for i := range artifacts.Forecasts {
			p := &artifacts.Forecasts[i]
			if _, err := tx.Exec(ctx, `
				INSERT INTO forecast_points (ticker, date, actual, predicted, lower, upper, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (ticker, date) DO UPDATE
				SET actual = EXCLUDED.actual, predicted = EXCLUDED.predicted,
					lower = EXCLUDED.lower, upper = EXCLUDED.upper`,
				symbol, p.Date, p.Actual, p.Predicted, p.Lower, p.Upper, now,
			); err != nil {
				return fmt.Errorf("insert forecast point: %w", err)
			}
		}

		query := `
			UPDATE tickers
			SET last_trained_at = $2, accuracy = $3, status = $4, updated_at = $2
			WHERE ticker = $1
		`
		args := []interface{}{symbol, now, best.R2, models.TickerStatusHealthy}
		if autoDeploy {
			query = `
				UPDATE tickers
				SET last_trained_at = $2, accuracy = $3, status = $4, current_model = $5, updated_at = $2
				WHERE ticker = $1
			`
			args = append(args, best.Model)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update ticker: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}
