package usecase

import (
	"context"

	"ForecastOps/internal/domain/models"
	domrepo "ForecastOps/internal/domain/repository"
)

const (
	// DefaultLogLimit is used when the request does not name one.
	DefaultLogLimit = 200
	// MaxLogLimit caps the number of entries per request.
	MaxLogLimit = 1000
)

// LogsUseCase serves the audit log, newest first.
type LogsUseCase struct {
	logs domrepo.LogRepository
}

func NewLogsUseCase(logs domrepo.LogRepository) *LogsUseCase {
	return &LogsUseCase{logs: logs}
}

func (uc *LogsUseCase) List(ctx context.Context, symbol string, limit int) ([]models.LogEntryResponse, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}

	logs, err := uc.logs.List(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.LogEntryResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, models.NewLogEntryResponse(l))
	}
	return out, nil
}
