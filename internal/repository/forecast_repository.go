package repository

import (
	"context"
	"fmt"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/postgres"
)

// PostgresForecastRepository persists forecast points in PostgreSQL.
type PostgresForecastRepository struct {
	db *postgres.Client
}

// NewPostgresForecastRepository creates a new forecast repository.
func NewPostgresForecastRepository(db *postgres.Client) *PostgresForecastRepository {
	return &PostgresForecastRepository{db: db}
}

func (r *PostgresForecastRepository) ListByTicker(ctx context.Context, symbol string, horizon int) ([]*models.ForecastPoint, error) {
	query := `
		SELECT id, ticker, date, actual, predicted, lower, upper, created_at
		FROM forecast_points
		WHERE ticker = $1
		ORDER BY date
		LIMIT $2
	`

	rows, err := r.db.Pool().Query(ctx, query, symbol, horizon)
	if err != nil {
		return nil, fmt.Errorf("list forecast points: %w", err)
	}
	defer rows.Close()

	points := make([]*models.ForecastPoint, 0, horizon)
	for rows.Next() {
		p := &models.ForecastPoint{}
		if err := rows.Scan(
			&p.ID, &p.Ticker, &p.Date, &p.Actual, &p.Predicted, &p.Lower, &p.Upper, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan forecast point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
