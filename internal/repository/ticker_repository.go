package repository

import (
	"context"
	"errors"
	"fmt"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const tickerColumns = `ticker, name, exchange, status, current_model,
	last_trained_at, drift_score, accuracy, updated_at`

// PostgresTickerRepository persists tickers in PostgreSQL.
type PostgresTickerRepository struct {
	db *postgres.Client
}

// NewPostgresTickerRepository creates a new ticker repository.
func NewPostgresTickerRepository(db *postgres.Client) *PostgresTickerRepository {
	return &PostgresTickerRepository{db: db}
}

func (r *PostgresTickerRepository) List(ctx context.Context) ([]*models.Ticker, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickers ORDER BY ticker`, tickerColumns)

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	defer rows.Close()

	tickers := make([]*models.Ticker, 0)
	for rows.Next() {
		t, err := scanTicker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

func (r *PostgresTickerRepository) Get(ctx context.Context, symbol string) (*models.Ticker, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickers WHERE ticker = $1`, tickerColumns)

	t, err := scanTicker(r.db.Pool().QueryRow(ctx, query, symbol))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticker: %w", err)
	}
	return t, nil
}

func (r *PostgresTickerRepository) Create(ctx context.Context, t *models.Ticker) error {
	query := `
		INSERT INTO tickers (ticker, name, exchange, status, current_model,
			last_trained_at, drift_score, accuracy, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		t.Ticker, t.Name, t.Exchange, t.Status, t.CurrentModel,
		t.LastTrainedAt, t.DriftScore, t.Accuracy, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicate
		}
		return fmt.Errorf("create ticker: %w", err)
	}
	return nil
}

func (r *PostgresTickerRepository) Delete(ctx context.Context, symbol string) error {
	tag, err := r.db.Pool().Exec(ctx, `DELETE FROM tickers WHERE ticker = $1`, symbol)
	if err != nil {
		return fmt.Errorf("delete ticker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresTickerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM tickers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tickers: %w", err)
	}
	return count, nil
}

func scanTicker(row pgx.Row) (*models.Ticker, error) {
	t := &models.Ticker{}
	err := row.Scan(
		&t.Ticker, &t.Name, &t.Exchange, &t.Status, &t.CurrentModel,
		&t.LastTrainedAt, &t.DriftScore, &t.Accuracy, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
