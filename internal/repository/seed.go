package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/logger"
	"ForecastOps/pkg/postgres"
)

// Seeder populates an empty database with demo data so the dashboard has
// something to show before the first real training run.
type Seeder struct {
	db     *postgres.Client
	logger *logger.Logger
}

// NewSeeder creates a new sample-data seeder.
func NewSeeder(db *postgres.Client, lgr *logger.Logger) *Seeder {
	return &Seeder{db: db, logger: lgr}
}

// Seed inserts sample tickers, models, forecasts and logs. No-op when
// any ticker already exists.
func (s *Seeder) Seed(ctx context.Context) error {
	var count int
	if err := s.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM tickers`).Scan(&count); err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		s.logger.Info("sample data skipped", logger.Int("existing_tickers", count))
		return nil
	}

	now := time.Now().UTC()
	tickers := []struct {
		symbol, name, status, model string
		trainedDaysAgo              int
		drift, accuracy             float64
	}{
		{"AAPL", "Apple Inc.", models.TickerStatusHealthy, "Transformer", 1, 0.12, 0.91},
		{"GOOGL", "Alphabet Inc.", models.TickerStatusHealthy, "LSTM", 2, 0.08, 0.88},
		{"TSLA", "Tesla Inc.", models.TickerStatusWarning, "XGBoost", 5, 0.25, 0.82},
	}

	for _, t := range tickers {
		trained := now.AddDate(0, 0, -t.trainedDaysAgo)
		if _, err := s.db.Pool().Exec(ctx, `
			INSERT INTO tickers (ticker, name, exchange, status, current_model,
				last_trained_at, drift_score, accuracy, updated_at)
			VALUES ($1, $2, 'NASDAQ', $3, $4, $5, $6, $7, $8)`,
			t.symbol, t.name, t.status, t.model, trained, t.drift, t.accuracy, now,
		); err != nil {
			return fmt.Errorf("seed ticker %s: %w", t.symbol, err)
		}

		if err := s.seedModels(ctx, t.symbol, now); err != nil {
			return err
		}
		if err := s.seedForecasts(ctx, t.symbol, now); err != nil {
			return err
		}
	}

	if err := s.seedLogs(ctx, now); err != nil {
		return err
	}

	s.logger.Info("sample data seeded", logger.Int("tickers", len(tickers)))
	return nil
}

func (s *Seeder) seedModels(ctx context.Context, symbol string, now time.Time) error {
	trained := now.AddDate(0, 0, -1)
	entries := []struct {
		model                string
		mae, rmse, mape, r2  float64
		recommended          bool
	}{
		{"LSTM", randBetween(1.2, 2.5), randBetween(1.8, 3.0), randBetween(0.03, 0.06), randBetween(0.82, 0.92), false},
		{"Transformer", randBetween(1.0, 2.0), randBetween(1.5, 2.5), randBetween(0.025, 0.05), randBetween(0.85, 0.95), true},
		{"XGBoost", randBetween(1.3, 2.3), randBetween(1.9, 2.8), randBetween(0.035, 0.055), randBetween(0.80, 0.90), false},
	}

	for _, e := range entries {
		if _, err := s.db.Pool().Exec(ctx, `
			INSERT INTO models (ticker, model, mae, rmse, mape, r2, last_trained_at, status, recommended)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			symbol, e.model, e.mae, e.rmse, e.mape, e.r2, trained, models.ModelStatusCandidate, e.recommended,
		); err != nil {
			return fmt.Errorf("seed models for %s: %w", symbol, err)
		}
	}
	return nil
}

func (s *Seeder) seedForecasts(ctx context.Context, symbol string, now time.Time) error {
	basePrice := randBetween(100, 300)
	for i := 0; i < 60; i++ {
		date := now.AddDate(0, 0, i-60)
		actual := basePrice + randBetween(-5, 5) + float64(i)*0.1
		predicted := actual + randBetween(-2, 2)

		var actualPtr *float64
		if i < 30 {
			v := actual
			actualPtr = &v
		}
		lower := predicted - 3
		upper := predicted + 3

		if _, err := s.db.Pool().Exec(ctx, `
			INSERT INTO forecast_points (ticker, date, actual, predicted, lower, upper, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			symbol, date, actualPtr, predicted, lower, upper, now,
		); err != nil {
			return fmt.Errorf("seed forecasts for %s: %w", symbol, err)
		}
	}
	return nil
}

func (s *Seeder) seedLogs(ctx context.Context, now time.Time) error {
	symbols := []string{"AAPL", "GOOGL", "TSLA"}
	events := []string{"training_started", "training_completed", "drift_detected", "model_deployed", "prediction_generated"}
	statuses := []string{models.LogStatusSuccess, models.LogStatusWarning, models.LogStatusError}

	for i := 0; i < 50; i++ {
		symbol := symbols[rand.Intn(len(symbols))]
		event := events[rand.Intn(len(events))]
		status := models.LogStatusSuccess
		if event != "training_completed" {
			status = statuses[rand.Intn(len(statuses))]
		}

		details := map[string]interface{}{}
		if event == "training_completed" {
			details["model"] = []string{"LSTM", "Transformer", "XGBoost"}[rand.Intn(3)]
			details["mae"] = randBetween(1.0, 2.5)
		}
		detailsJSON, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal seed log details: %w", err)
		}

		message := fmt.Sprintf("%s for %s", titleCase(event), symbol)
		if _, err := s.db.Pool().Exec(ctx, `
			INSERT INTO logs (id, timestamp, ticker, event, status, message, details)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			fmt.Sprintf("log_%04d", i), now.Add(-time.Duration(i)*time.Hour), symbol, event, status, message, detailsJSON,
		); err != nil {
			return fmt.Errorf("seed logs: %w", err)
		}
	}
	return nil
}

func randBetween(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func titleCase(event string) string {
	words := strings.Split(event, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
