package repository

import (
	"context"
	"errors"
	"fmt"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/postgres"

	"github.com/jackc/pgx/v5"
)

// PostgresModelRepository persists candidate models in PostgreSQL.
type PostgresModelRepository struct {
	db *postgres.Client
}

// NewPostgresModelRepository creates a new model repository.
func NewPostgresModelRepository(db *postgres.Client) *PostgresModelRepository {
	return &PostgresModelRepository{db: db}
}

func (r *PostgresModelRepository) ListByTicker(ctx context.Context, symbol string) ([]*models.CandidateModel, error) {
	query := `
		SELECT id, ticker, model, mae, rmse, mape, r2, last_trained_at, status, recommended
		FROM models
		WHERE ticker = $1
		ORDER BY recommended DESC, r2 DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	candidates := make([]*models.CandidateModel, 0)
	for rows.Next() {
		m := &models.CandidateModel{}
		if err := rows.Scan(
			&m.ID, &m.Ticker, &m.Model, &m.MAE, &m.RMSE, &m.MAPE, &m.R2,
			&m.LastTrainedAt, &m.Status, &m.Recommended,
		); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		candidates = append(candidates, m)
	}
	return candidates, rows.Err()
}

// Deploy switches the ticker's current model. The previous model reverts
// to candidate status; the whole switch is one transaction.
func (r *PostgresModelRepository) Deploy(ctx context.Context, symbol, model string) (*string, error) {
	var previous *string

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT current_model FROM tickers WHERE ticker = $1 FOR UPDATE`, symbol)
		if err := row.Scan(&previous); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrNotFound
			}
			return fmt.Errorf("lock ticker: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE models SET status = $1 WHERE ticker = $2`,
			models.ModelStatusCandidate, symbol,
		); err != nil {
			return fmt.Errorf("reset model statuses: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE models SET status = $1 WHERE ticker = $2 AND model = $3`,
			models.ModelStatusDeployed, symbol, model,
		)
		if err != nil {
			return fmt.Errorf("mark model deployed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		if _, err := tx.Exec(ctx,
			`UPDATE tickers SET current_model = $1, updated_at = now() WHERE ticker = $2`,
			model, symbol,
		); err != nil {
			return fmt.Errorf("set current model: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}
