package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/clickhouse"
)

// CHArtifactStore reads training artifacts from ClickHouse. The external
// training job inserts metric and forecast rows keyed by (ticker, run);
// this store only ever reads them back during finalize.
type CHArtifactStore struct {
	client *clickhouse.Client
}

// NewCHArtifactStore creates a new ClickHouse artifact store.
func NewCHArtifactStore(client *clickhouse.Client) *CHArtifactStore {
	return &CHArtifactStore{client: client}
}

// Init ensures the artifact database and tables exist.
func (s *CHArtifactStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, []string{
		`CREATE DATABASE IF NOT EXISTS forecastops`,
		`CREATE TABLE IF NOT EXISTS forecastops.model_artifacts (
			ticker      String,
			run_id      Int64,
			model       String,
			mae         Float64,
			rmse        Float64,
			mape        Float64,
			r2          Float64,
			recommended UInt8,
			created_at  DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (ticker, run_id)`,
		`CREATE TABLE IF NOT EXISTS forecastops.forecast_artifacts (
			ticker     String,
			run_id     Int64,
			date       Date,
			actual     Nullable(Float64),
			predicted  Float64,
			lower      Nullable(Float64),
			upper      Nullable(Float64),
			created_at DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (ticker, run_id, date)`,
	})
}

// Load reads everything the training job wrote for one run.
func (s *CHArtifactStore) Load(ctx context.Context, symbol string, runID int64) (*models.TrainingArtifacts, error) {
	artifacts := &models.TrainingArtifacts{}

	rows, err := s.client.DB().QueryContext(ctx, `
		SELECT ticker, run_id, model, mae, rmse, mape, r2, recommended, created_at
		FROM forecastops.model_artifacts
		WHERE ticker = ? AND run_id = ?
		ORDER BY model`,
		symbol, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query model artifacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ModelArtifact
		var recommended uint8
		if err := rows.Scan(
			&m.Ticker, &m.RunID, &m.Model, &m.MAE, &m.RMSE, &m.MAPE, &m.R2,
			&recommended, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan model artifact: %w", err)
		}
		m.Recommended = recommended != 0
		artifacts.Models = append(artifacts.Models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fRows, err := s.client.DB().QueryContext(ctx, `
		SELECT ticker, run_id, date, actual, predicted, lower, upper, created_at
		FROM forecastops.forecast_artifacts
		WHERE ticker = ? AND run_id = ?
		ORDER BY date`,
		symbol, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query forecast artifacts: %w", err)
	}
	defer fRows.Close()

	for fRows.Next() {
		var f models.ForecastArtifact
		var actual, lower, upper sql.NullFloat64
		if err := fRows.Scan(
			&f.Ticker, &f.RunID, &f.Date, &actual, &f.Predicted, &lower, &upper, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan forecast artifact: %w", err)
		}
		f.Actual = nullFloat(actual)
		f.Lower = nullFloat(lower)
		f.Upper = nullFloat(upper)
		artifacts.Forecasts = append(artifacts.Forecasts, f)
	}
	if err := fRows.Err(); err != nil {
		return nil, err
	}

	return artifacts, nil
}

// Health pings the backing connection.
func (s *CHArtifactStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

// Close releases the backing connection pool.
func (s *CHArtifactStore) Close() error {
	return s.client.Close()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
