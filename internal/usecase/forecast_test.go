package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/internal/service/cache"
)

func forecastPoints(symbol string, n int) []*models.ForecastPoint {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	points := make([]*models.ForecastPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, &models.ForecastPoint{
			Ticker:    symbol,
			Date:      base.AddDate(0, 0, i),
			Predicted: 180 + float64(i),
		})
	}
	return points
}

func TestForecastDefaultHorizon(t *testing.T) {
	repo := &fakeForecastRepo{points: forecastPoints("AAPL", 60)}
	uc := NewForecastUseCase(newFakeTickerRepo("AAPL"), repo, cache.NewTTLCache(), time.Minute)

	resp, err := uc.Get(context.Background(), "AAPL", 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.Horizon != DefaultHorizon {
		t.Fatalf("expected default horizon %d, got %d", DefaultHorizon, resp.Horizon)
	}
	if len(resp.Points) != DefaultHorizon {
		t.Fatalf("expected %d points, got %d", DefaultHorizon, len(resp.Points))
	}
	if resp.Points[0].Date != "2026-08-01" {
		t.Fatalf("unexpected first date %q", resp.Points[0].Date)
	}
}

func TestForecastHorizonCapped(t *testing.T) {
	repo := &fakeForecastRepo{points: forecastPoints("AAPL", 200)}
	uc := NewForecastUseCase(newFakeTickerRepo("AAPL"), repo, cache.NewTTLCache(), time.Minute)

	resp, err := uc.Get(context.Background(), "AAPL", 500)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.Horizon != MaxHorizon {
		t.Fatalf("expected capped horizon %d, got %d", MaxHorizon, resp.Horizon)
	}
}

func TestForecastCachedBetweenCalls(t *testing.T) {
	repo := &fakeForecastRepo{points: forecastPoints("AAPL", 30)}
	uc := NewForecastUseCase(newFakeTickerRepo("AAPL"), repo, cache.NewTTLCache(), time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := uc.Get(context.Background(), "AAPL", 30); err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
	}
	if repo.calls != 1 {
		t.Fatalf("expected 1 store read, got %d", repo.calls)
	}
}

func TestForecastInvalidateDropsCache(t *testing.T) {
	repo := &fakeForecastRepo{points: forecastPoints("AAPL", 30)}
	uc := NewForecastUseCase(newFakeTickerRepo("AAPL"), repo, cache.NewTTLCache(), time.Minute)

	if _, err := uc.Get(context.Background(), "AAPL", 30); err != nil {
		t.Fatalf("get: %v", err)
	}
	uc.Invalidate("AAPL")
	if _, err := uc.Get(context.Background(), "AAPL", 30); err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected 2 store reads, got %d", repo.calls)
	}
}

func TestForecastNoData(t *testing.T) {
	uc := NewForecastUseCase(newFakeTickerRepo("AAPL"), &fakeForecastRepo{}, cache.NewTTLCache(), time.Minute)

	if _, err := uc.Get(context.Background(), "AAPL", 30); !errors.Is(err, ErrNoForecast) {
		t.Fatalf("expected ErrNoForecast, got %v", err)
	}
}

func TestForecastUnknownTicker(t *testing.T) {
	uc := NewForecastUseCase(newFakeTickerRepo(), &fakeForecastRepo{}, cache.NewTTLCache(), time.Minute)

	if _, err := uc.Get(context.Background(), "MSFT", 30); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
