package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/postgres"

	"github.com/jackc/pgx/v5"
)

// PostgresSettingsRepository persists the singleton settings row.
type PostgresSettingsRepository struct {
	db *postgres.Client
}

// NewPostgresSettingsRepository creates a new settings repository.
func NewPostgresSettingsRepository(db *postgres.Client) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	s, err := r.load(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	defaults := models.DefaultSettings()
	if err := r.insert(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

func (r *PostgresSettingsRepository) Update(ctx context.Context, s *models.Settings) error {
	candidates, exchanges, err := marshalSettingsLists(s)
	if err != nil {
		return err
	}

	s.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE settings
		SET retrain_frequency = $2, drift_threshold = $3, enable_auto_deploy = $4,
			slack_webhook_url = $5, candidate_models = $6, exchanges_enabled = $7,
			updated_at = $8
		WHERE id = $1
	`
	tag, err := r.db.Pool().Exec(ctx, query,
		models.SettingsID, s.RetrainFrequency, s.DriftThreshold, s.EnableAutoDeploy,
		s.SlackWebhookURL, candidates, exchanges, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.insert(ctx, s)
	}
	return nil
}

func (r *PostgresSettingsRepository) load(ctx context.Context) (*models.Settings, error) {
	query := `
		SELECT id, retrain_frequency, drift_threshold, enable_auto_deploy,
			slack_webhook_url, candidate_models, exchanges_enabled, updated_at
		FROM settings
		WHERE id = $1
	`

	s := &models.Settings{}
	var candidates, exchanges []byte
	err := r.db.Pool().QueryRow(ctx, query, models.SettingsID).Scan(
		&s.ID, &s.RetrainFrequency, &s.DriftThreshold, &s.EnableAutoDeploy,
		&s.SlackWebhookURL, &candidates, &exchanges, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(candidates, &s.CandidateModels); err != nil {
		return nil, fmt.Errorf("unmarshal candidate models: %w", err)
	}
	if err := json.Unmarshal(exchanges, &s.ExchangesEnabled); err != nil {
		return nil, fmt.Errorf("unmarshal exchanges: %w", err)
	}
	return s, nil
}

func (r *PostgresSettingsRepository) insert(ctx context.Context, s *models.Settings) error {
	candidates, exchanges, err := marshalSettingsLists(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO settings (id, retrain_frequency, drift_threshold, enable_auto_deploy,
			slack_webhook_url, candidate_models, exchanges_enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.Pool().Exec(ctx, query,
		models.SettingsID, s.RetrainFrequency, s.DriftThreshold, s.EnableAutoDeploy,
		s.SlackWebhookURL, candidates, exchanges, s.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

func marshalSettingsLists(s *models.Settings) ([]byte, []byte, error) {
	candidates, err := json.Marshal(s.CandidateModels)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal candidate models: %w", err)
	}
	exchanges, err := json.Marshal(s.ExchangesEnabled)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal exchanges: %w", err)
	}
	return candidates, exchanges, nil
}
