package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/postgres"

	"github.com/google/uuid"
)

// PostgresLogRepository persists audit log entries in PostgreSQL.
type PostgresLogRepository struct {
	db *postgres.Client
}

// NewPostgresLogRepository creates a new log repository.
func NewPostgresLogRepository(db *postgres.Client) *PostgresLogRepository {
	return &PostgresLogRepository{db: db}
}

func (r *PostgresLogRepository) Append(ctx context.Context, l *models.Log) error {
	if l.ID == "" {
		l.ID = "log_" + uuid.NewString()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	details := l.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal log details: %w", err)
	}

	query := `
		INSERT INTO logs (id, timestamp, ticker, event, status, message, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.Pool().Exec(ctx, query,
		l.ID, l.Timestamp, l.Ticker, l.Event, l.Status, l.Message, detailsJSON,
	); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

func (r *PostgresLogRepository) List(ctx context.Context, symbol string, limit int) ([]*models.Log, error) {
	query := `
		SELECT id, timestamp, ticker, event, status, message, details
		FROM logs
		WHERE ($1 = '' OR ticker = $1)
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.Pool().Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*models.Log, 0, limit)
	for rows.Next() {
		l := &models.Log{}
		var detailsJSON []byte
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Ticker, &l.Event, &l.Status, &l.Message, &detailsJSON); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &l.Details); err != nil {
				return nil, fmt.Errorf("unmarshal log details: %w", err)
			}
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
