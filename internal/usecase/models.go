package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ForecastOps/internal/domain/models"
	domrepo "ForecastOps/internal/domain/repository"
	"ForecastOps/pkg/logger"
	"ForecastOps/pkg/util"
)

// ModelsUseCase provides business logic for candidate models and
// manual deployment.
type ModelsUseCase struct {
	tickers    domrepo.TickerRepository
	candidates domrepo.ModelRepository
	logs       domrepo.LogRepository
	events     domrepo.EventPublisher
	metrics    domrepo.Metrics
	logger     *logger.Logger
}

func NewModelsUseCase(
	tickers domrepo.TickerRepository,
	candidates domrepo.ModelRepository,
	logs domrepo.LogRepository,
	events domrepo.EventPublisher,
	metrics domrepo.Metrics,
	lgr *logger.Logger,
) *ModelsUseCase {
	return &ModelsUseCase{
		tickers:    tickers,
		candidates: candidates,
		logs:       logs,
		events:     events,
		metrics:    metrics,
		logger:     lgr,
	}
}

// List returns the candidate set for a ticker. An empty set is reported
// as models.ErrNotFound so the API can answer 404.
func (uc *ModelsUseCase) List(ctx context.Context, symbol string) ([]*models.ModelMetricsResponse, error) {
	if _, err := uc.tickers.Get(ctx, symbol); err != nil {
		return nil, err
	}

	candidates, err := uc.candidates.ListByTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoModels)
	}

	out := make([]*models.ModelMetricsResponse, 0, len(candidates))
	for _, m := range candidates {
		out = append(out, models.NewModelMetricsResponse(m))
	}
	return out, nil
}

// Deploy switches the ticker's serving model to one of its candidates.
func (uc *ModelsUseCase) Deploy(ctx context.Context, symbol string, req *models.DeployModelRequest) (*models.DeployModelResponse, error) {
	if _, err := uc.tickers.Get(ctx, symbol); err != nil {
		return nil, err
	}

	candidates, err := uc.candidates.ListByTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}
	found := false
	for _, m := range candidates {
		if m.Model == req.Model {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("model %s for %s: %w", req.Model, symbol, ErrNotCandidate)
	}

	previous, err := uc.candidates.Deploy(ctx, symbol, req.Model)
	if err != nil {
		// The candidate set was checked above, so a not-found from the
		// transaction means the model row vanished concurrently.
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("model %s for %s: %w", req.Model, symbol, ErrNotCandidate)
		}
		return nil, err
	}
	deployedAt := time.Now().UTC()

	if err := uc.logs.Append(ctx, &models.Log{
		Ticker:  symbol,
		Event:   models.EventModelDeployed,
		Status:  models.LogStatusSuccess,
		Message: fmt.Sprintf("Deployed %s model for %s", req.Model, symbol),
		Details: map[string]interface{}{"model": req.Model},
	}); err != nil {
		uc.logger.Warn("deploy audit log failed", logger.String("ticker", symbol), logger.Error(err))
	}

	if err := uc.events.Publish(ctx, &models.PipelineEvent{
		Type:      models.EventTypeModelDeployed,
		Ticker:    symbol,
		Model:     req.Model,
		Timestamp: deployedAt,
	}); err != nil {
		uc.logger.Warn("deploy event publish failed", logger.String("ticker", symbol), logger.Error(err))
	}
	uc.metrics.RecordDeploy(req.Model)

	return &models.DeployModelResponse{
		Ticker:        symbol,
		PreviousModel: previous,
		DeployedModel: req.Model,
		DeployedAt:    util.FormatTimestamp(deployedAt),
	}, nil
}
