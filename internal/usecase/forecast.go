package usecase

import (
	"context"
	"fmt"
	"time"

	"ForecastOps/internal/domain/models"
	domrepo "ForecastOps/internal/domain/repository"
	"ForecastOps/internal/service/cache"
)

const (
	// DefaultHorizon is used when the request does not name one.
	DefaultHorizon = 30
	// MaxHorizon caps the number of forecast points per request.
	MaxHorizon = 90
)

// ForecastUseCase serves forecast reads, cached briefly to absorb
// dashboard polling.
type ForecastUseCase struct {
	tickers   domrepo.TickerRepository
	forecasts domrepo.ForecastRepository
	cache     *cache.TTLCache
	ttl       time.Duration
}

func NewForecastUseCase(
	tickers domrepo.TickerRepository,
	forecasts domrepo.ForecastRepository,
	ttlCache *cache.TTLCache,
	ttl time.Duration,
) *ForecastUseCase {
	return &ForecastUseCase{
		tickers:   tickers,
		forecasts: forecasts,
		cache:     ttlCache,
		ttl:       ttl,
	}
}

// Get returns up to horizon points for a ticker, ordered by date.
func (uc *ForecastUseCase) Get(ctx context.Context, symbol string, horizon int) (*models.ForecastResponse, error) {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if horizon > MaxHorizon {
		horizon = MaxHorizon
	}

	key := fmt.Sprintf("forecast:%s:%d", symbol, horizon)
	if v, ok := uc.cache.Get(key); ok {
		return v.(*models.ForecastResponse), nil
	}

	if _, err := uc.tickers.Get(ctx, symbol); err != nil {
		return nil, err
	}

	points, err := uc.forecasts.ListByTicker(ctx, symbol, horizon)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoForecast)
	}

	resp := &models.ForecastResponse{
		Ticker:  symbol,
		Horizon: horizon,
		Points:  make([]models.ForecastPointResponse, 0, len(points)),
	}
	for _, p := range points {
		resp.Points = append(resp.Points, models.NewForecastPointResponse(p))
	}

	uc.cache.Set(key, resp, uc.ttl)
	return resp, nil
}

// Invalidate drops cached forecasts for one ticker. Called after a
// training run replaces its points.
func (uc *ForecastUseCase) Invalidate(symbol string) {
	uc.cache.Invalidate("forecast:" + symbol + ":")
}
