package usecase

import (
	"context"
	"errors"

	"ForecastOps/internal/domain/models"
	domrepo "ForecastOps/internal/domain/repository"
)

// PipelineStatus answers "what is this ticker's pipeline doing now".
type PipelineStatus struct {
	tickers domrepo.TickerRepository
	runs    domrepo.PipelineRunRepository
}

func NewPipelineStatus(tickers domrepo.TickerRepository, runs domrepo.PipelineRunRepository) *PipelineStatus {
	return &PipelineStatus{tickers: tickers, runs: runs}
}

// Status returns the latest run's state, or an idle body for a ticker
// that has never run. Unknown tickers yield models.ErrNotFound.
func (s *PipelineStatus) Status(ctx context.Context, symbol string) (*models.PipelineStatusResponse, error) {
	if _, err := s.tickers.Get(ctx, symbol); err != nil {
		return nil, err
	}

	run, err := s.runs.Latest(ctx, symbol)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewIdlePipelineStatusResponse(symbol), nil
	}
	if err != nil {
		return nil, err
	}
	return models.NewPipelineStatusResponse(run), nil
}
