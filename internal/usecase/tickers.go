package usecase

import (
	"context"
	"time"

	"ForecastOps/internal/domain/models"
	domrepo "ForecastOps/internal/domain/repository"
	"ForecastOps/pkg/logger"
	"ForecastOps/pkg/util"
)

// TickerUseCase provides business logic for the tracked ticker set.
type TickerUseCase struct {
	tickers    domrepo.TickerRepository
	candidates domrepo.ModelRepository
	logs       domrepo.LogRepository
	dispatcher *PipelineDispatcher
	forecasts  *ForecastUseCase
	metrics    domrepo.Metrics
	logger     *logger.Logger
}

func NewTickerUseCase(
	tickers domrepo.TickerRepository,
	candidates domrepo.ModelRepository,
	logs domrepo.LogRepository,
	dispatcher *PipelineDispatcher,
	forecasts *ForecastUseCase,
	metrics domrepo.Metrics,
	lgr *logger.Logger,
) *TickerUseCase {
	return &TickerUseCase{
		tickers:    tickers,
		candidates: candidates,
		logs:       logs,
		dispatcher: dispatcher,
		forecasts:  forecasts,
		metrics:    metrics,
		logger:     lgr,
	}
}

func (uc *TickerUseCase) List(ctx context.Context) ([]*models.TickerResponse, error) {
	tickers, err := uc.tickers.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.TickerResponse, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, models.NewTickerResponse(t))
	}
	return out, nil
}

// Create registers a new ticker and kicks off its first training run.
// The run dispatch is best-effort: a queue outage must not block adding
// the ticker.
func (uc *TickerUseCase) Create(ctx context.Context, req *models.CreateTickerRequest) (*models.TickerResponse, error) {
	symbol := util.NormalizeSymbol(req.ResolveSymbol())
	if symbol == "" {
		return nil, ErrSymbolRequired
	}

	name := req.Name
	if name == "" {
		name = symbol
	}

	t := &models.Ticker{
		Ticker:    symbol,
		Name:      name,
		Exchange:  req.Exchange,
		Status:    models.TickerStatusWarning,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uc.tickers.Create(ctx, t); err != nil {
		return nil, err
	}

	if err := uc.logs.Append(ctx, &models.Log{
		Ticker:  symbol,
		Event:   models.EventTickerAdded,
		Status:  models.LogStatusSuccess,
		Message: "Ticker " + symbol + " added",
		Details: map[string]interface{}{"exchange": t.Exchange},
	}); err != nil {
		uc.logger.Warn("ticker audit log failed", logger.String("ticker", symbol), logger.Error(err))
	}

	if _, err := uc.dispatcher.Dispatch(ctx, symbol); err != nil {
		uc.logger.Warn("initial pipeline dispatch failed",
			logger.String("ticker", symbol), logger.Error(err))
	}

	uc.refreshTrackedGauge(ctx)
	return models.NewTickerResponse(t), nil
}

// Detail returns one ticker with the metrics of its recommended model.
func (uc *TickerUseCase) Detail(ctx context.Context, symbol string) (*models.TickerDetailResponse, error) {
	t, err := uc.tickers.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}

	metrics := map[string]float64{}
	candidates, err := uc.candidates.ListByTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}
	for _, m := range candidates {
		if t.CurrentModel != nil && m.Model == *t.CurrentModel || m.Recommended {
			metrics = map[string]float64{"mae": m.MAE, "rmse": m.RMSE, "mape": m.MAPE}
			if t.CurrentModel != nil && m.Model == *t.CurrentModel {
				break
			}
		}
	}

	return &models.TickerDetailResponse{
		Ticker:        t.Ticker,
		Name:          t.Name,
		Exchange:      t.Exchange,
		Status:        t.Status,
		CurrentModel:  t.CurrentModel,
		LastTrainedAt: util.FormatTimestampPtr(t.LastTrainedAt),
		Metrics:       metrics,
	}, nil
}

// Delete removes a ticker and, through the store's cascade, all of its
// models, forecasts, logs and runs. Cached forecasts are dropped so a
// deleted (or re-created) symbol never serves stale points.
func (uc *TickerUseCase) Delete(ctx context.Context, symbol string) error {
	if err := uc.tickers.Delete(ctx, symbol); err != nil {
		return err
	}
	uc.forecasts.Invalidate(symbol)
	uc.logger.Info("ticker deleted", logger.String("ticker", symbol))
	uc.refreshTrackedGauge(ctx)
	return nil
}

func (uc *TickerUseCase) refreshTrackedGauge(ctx context.Context) {
	if count, err := uc.tickers.Count(ctx); err == nil {
		uc.metrics.SetTickersTracked(count)
	}
}
