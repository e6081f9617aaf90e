package usecase

import (
	"context"

	"ForecastOps/internal/domain/models"
	domrepo "ForecastOps/internal/domain/repository"
)

// SettingsUseCase manages the singleton application settings.
type SettingsUseCase struct {
	settings domrepo.SettingsRepository
}

func NewSettingsUseCase(settings domrepo.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{settings: settings}
}

func (uc *SettingsUseCase) Get(ctx context.Context) (*models.SettingsResponse, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewSettingsResponse(s), nil
}

// Update applies a partial update: only fields present in the request
// change, everything else keeps its stored value.
func (uc *SettingsUseCase) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.RetrainFrequency != nil {
		s.RetrainFrequency = *req.RetrainFrequency
	}
	if req.DriftThreshold != nil {
		s.DriftThreshold = *req.DriftThreshold
	}
	if req.EnableAutoDeploy != nil {
		s.EnableAutoDeploy = *req.EnableAutoDeploy
	}
	if req.SlackWebhookURL != nil {
		s.SlackWebhookURL = *req.SlackWebhookURL
	}
	if req.CandidateModels != nil {
		s.CandidateModels = *req.CandidateModels
	}
	if req.ExchangesEnabled != nil {
		s.ExchangesEnabled = *req.ExchangesEnabled
	}

	if err := uc.settings.Update(ctx, s); err != nil {
		return nil, err
	}
	return models.NewSettingsResponse(s), nil
}
