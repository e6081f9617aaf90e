package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/internal/service/cache"
)

func testTickerUseCase(t *testing.T, tickers *fakeTickerRepo, candidates *fakeModelRepo, logs *fakeLogRepo, q *fakeQueue, m *fakeMetrics) *TickerUseCase {
	t.Helper()
	forecasts := NewForecastUseCase(tickers, &fakeForecastRepo{}, cache.NewTTLCache(), time.Minute)
	d := testDispatcher(t, tickers, newFakeRunRepo(), logs, q, &fakeEvents{})
	return NewTickerUseCase(tickers, candidates, logs, d, forecasts, m, newTestLogger(t))
}

func TestCreateTickerNormalizesSymbol(t *testing.T) {
	tickers := newFakeTickerRepo()
	logs := &fakeLogRepo{}
	q := &fakeQueue{}
	m := newFakeMetrics()
	uc := testTickerUseCase(t, tickers, &fakeModelRepo{}, logs, q, m)

	resp, err := uc.Create(context.Background(), &models.CreateTickerRequest{Symbol: "  aapl ", Exchange: "NASDAQ"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Ticker != "AAPL" {
		t.Fatalf("expected normalized symbol, got %q", resp.Ticker)
	}
	if resp.Name != "AAPL" {
		t.Fatalf("name should default to symbol, got %q", resp.Name)
	}
	if resp.Status != models.TickerStatusWarning {
		t.Fatalf("new tickers start in warning, got %q", resp.Status)
	}

	if len(logs.byEvent(models.EventTickerAdded)) != 1 {
		t.Fatal("expected ticker_added audit entry")
	}
	// the first training run is dispatched automatically
	if len(q.messages) != 1 {
		t.Fatalf("expected 1 queued run, got %d", len(q.messages))
	}
	if m.tracked != 1 {
		t.Fatalf("expected tracked gauge 1, got %d", m.tracked)
	}
}

func TestCreateTickerAcceptsTickerField(t *testing.T) {
	uc := testTickerUseCase(t, newFakeTickerRepo(), &fakeModelRepo{}, &fakeLogRepo{}, &fakeQueue{}, newFakeMetrics())

	resp, err := uc.Create(context.Background(), &models.CreateTickerRequest{Ticker: "googl"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Ticker != "GOOGL" {
		t.Fatalf("unexpected symbol %q", resp.Ticker)
	}
}

func TestCreateTickerEmptySymbol(t *testing.T) {
	uc := testTickerUseCase(t, newFakeTickerRepo(), &fakeModelRepo{}, &fakeLogRepo{}, &fakeQueue{}, newFakeMetrics())

	if _, err := uc.Create(context.Background(), &models.CreateTickerRequest{Symbol: "   "}); !errors.Is(err, ErrSymbolRequired) {
		t.Fatalf("expected ErrSymbolRequired, got %v", err)
	}
}

func TestCreateTickerDuplicate(t *testing.T) {
	uc := testTickerUseCase(t, newFakeTickerRepo("AAPL"), &fakeModelRepo{}, &fakeLogRepo{}, &fakeQueue{}, newFakeMetrics())

	if _, err := uc.Create(context.Background(), &models.CreateTickerRequest{Symbol: "AAPL"}); !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateTickerSurvivesQueueOutage(t *testing.T) {
	tickers := newFakeTickerRepo()
	uc := testTickerUseCase(t, tickers, &fakeModelRepo{}, &fakeLogRepo{}, &fakeQueue{err: errQueueDown}, newFakeMetrics())

	if _, err := uc.Create(context.Background(), &models.CreateTickerRequest{Symbol: "AAPL"}); err != nil {
		t.Fatalf("create must not fail on dispatch error: %v", err)
	}
	if _, err := tickers.Get(context.Background(), "AAPL"); err != nil {
		t.Fatalf("ticker should be persisted: %v", err)
	}
}

func TestTickerDetailUsesCurrentModelMetrics(t *testing.T) {
	tickers := newFakeTickerRepo("AAPL")
	current := "GRU"
	trained := time.Now().UTC().Add(-time.Hour)
	tk, _ := tickers.Get(context.Background(), "AAPL")
	tk.CurrentModel = &current
	tk.LastTrainedAt = &trained

	candidates := &fakeModelRepo{models: map[string][]*models.CandidateModel{
		"AAPL": {
			{Ticker: "AAPL", Model: "LSTM", MAE: 1.1, RMSE: 1.8, MAPE: 0.03, R2: 0.92, Recommended: true},
			{Ticker: "AAPL", Model: "GRU", MAE: 1.4, RMSE: 2.2, MAPE: 0.05, R2: 0.89},
		},
	}}
	uc := testTickerUseCase(t, tickers, candidates, &fakeLogRepo{}, &fakeQueue{}, newFakeMetrics())

	detail, err := uc.Detail(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Metrics["mae"] != 1.4 || detail.Metrics["rmse"] != 2.2 {
		t.Fatalf("expected deployed model metrics, got %v", detail.Metrics)
	}
	if detail.LastTrainedAt == nil {
		t.Fatal("expected last_trained_at to be set")
	}
}

func TestTickerDetailFallsBackToRecommended(t *testing.T) {
	candidates := &fakeModelRepo{models: map[string][]*models.CandidateModel{
		"AAPL": {
			{Ticker: "AAPL", Model: "LSTM", MAE: 1.1, RMSE: 1.8, MAPE: 0.03, R2: 0.92, Recommended: true},
		},
	}}
	uc := testTickerUseCase(t, newFakeTickerRepo("AAPL"), candidates, &fakeLogRepo{}, &fakeQueue{}, newFakeMetrics())

	detail, err := uc.Detail(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Metrics["mae"] != 1.1 {
		t.Fatalf("expected recommended model metrics, got %v", detail.Metrics)
	}
}

func TestDeleteTicker(t *testing.T) {
	tickers := newFakeTickerRepo("AAPL", "GOOGL")
	m := newFakeMetrics()
	uc := testTickerUseCase(t, tickers, &fakeModelRepo{}, &fakeLogRepo{}, &fakeQueue{}, m)

	if err := uc.Delete(context.Background(), "AAPL"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := tickers.Get(context.Background(), "AAPL"); !errors.Is(err, models.ErrNotFound) {
		t.Fatal("ticker should be gone")
	}
	if m.tracked != 1 {
		t.Fatalf("expected tracked gauge 1, got %d", m.tracked)
	}

	if err := uc.Delete(context.Background(), "AAPL"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTickerDropsCachedForecasts(t *testing.T) {
	tickers := newFakeTickerRepo("AAPL")
	store := &fakeForecastRepo{points: forecastPoints("AAPL", 3)}
	forecasts := NewForecastUseCase(tickers, store, cache.NewTTLCache(), time.Minute)
	d := testDispatcher(t, tickers, newFakeRunRepo(), &fakeLogRepo{}, &fakeQueue{}, &fakeEvents{})
	uc := NewTickerUseCase(tickers, &fakeModelRepo{}, &fakeLogRepo{}, d, forecasts, newFakeMetrics(), newTestLogger(t))

	if _, err := forecasts.Get(context.Background(), "AAPL", DefaultHorizon); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	if err := uc.Delete(context.Background(), "AAPL"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The cached entry must not outlive the ticker.
	store.points = nil
	if _, err := forecasts.Get(context.Background(), "AAPL", DefaultHorizon); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted ticker, got %v", err)
	}
}
