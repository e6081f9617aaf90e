package models

import "ForecastOps/pkg/util"

// Requests and response bodies for the HTTP API. Field names are part of
// the dashboard contract and must not change.

type CreateTickerRequest struct {
	Ticker   string `json:"ticker"`
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange" default:"NASDAQ"`
	Name     string `json:"name"`
}

// ResolveSymbol returns the symbol from either accepted field.
func (r *CreateTickerRequest) ResolveSymbol() string {
	if r.Ticker != "" {
		return r.Ticker
	}
	return r.Symbol
}

type DeployModelRequest struct {
	Model string `json:"model" validate:"required"`
}

type UpdateSettingsRequest struct {
	RetrainFrequency *string   `json:"retrain_frequency" validate:"omitempty,oneof=Daily Weekly Monthly"`
	DriftThreshold   *float64  `json:"drift_threshold" validate:"omitempty,gte=0,lte=1"`
	EnableAutoDeploy *bool     `json:"enable_auto_deploy"`
	SlackWebhookURL  *string   `json:"slack_webhook_url"`
	CandidateModels  *[]string `json:"candidate_models"`
	ExchangesEnabled *[]string `json:"exchanges_enabled"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type TickerResponse struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Exchange      string   `json:"exchange"`
	Status        string   `json:"status"`
	CurrentModel  *string  `json:"current_model"`
	LastTrainedAt *string  `json:"last_trained_at"`
	DriftScore    *float64 `json:"drift_score"`
	Accuracy      *float64 `json:"accuracy"`
	UpdatedAt     string   `json:"updated_at"`
}

type TickerDetailResponse struct {
	Ticker        string             `json:"ticker"`
	Name          string             `json:"name"`
	Exchange      string             `json:"exchange"`
	Status        string             `json:"status"`
	CurrentModel  *string            `json:"current_model"`
	LastTrainedAt *string            `json:"last_trained_at"`
	Metrics       map[string]float64 `json:"metrics"`
}

type ModelMetricsResponse struct {
	Model         string  `json:"model"`
	MAE           float64 `json:"mae"`
	RMSE          float64 `json:"rmse"`
	MAPE          float64 `json:"mape"`
	R2            float64 `json:"r2"`
	LastTrainedAt string  `json:"last_trained_at"`
	Status        string  `json:"status"`
	Recommended   bool    `json:"recommended"`
}

type DeployModelResponse struct {
	Ticker        string  `json:"ticker"`
	PreviousModel *string `json:"previous_model"`
	DeployedModel string  `json:"deployed_model"`
	DeployedAt    string  `json:"deployed_at"`
}

type ForecastPointResponse struct {
	Date      string   `json:"date"`
	Actual    *float64 `json:"actual"`
	Predicted float64  `json:"predicted"`
	Lower     *float64 `json:"lower,omitempty"`
	Upper     *float64 `json:"upper,omitempty"`
}

type ForecastResponse struct {
	Ticker  string                  `json:"ticker"`
	Horizon int                     `json:"horizon"`
	Points  []ForecastPointResponse `json:"points"`
}

type LogEntryResponse struct {
	ID        string                 `json:"id"`
	Timestamp string                 `json:"timestamp"`
	Ticker    string                 `json:"ticker"`
	Event     string                 `json:"event"`
	Status    string                 `json:"status"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details"`
}

type RetryPipelineResponse struct {
	Ticker   string `json:"ticker"`
	Accepted bool   `json:"accepted"`
	QueuedAt string `json:"queued_at"`
}

type PipelineStatusResponse struct {
	Ticker    string  `json:"ticker"`
	RunID     *int64  `json:"run_id,omitempty"`
	Status    string  `json:"status"`
	Stage     string  `json:"stage"`
	Progress  float64 `json:"progress"`
	Message   string  `json:"message"`
	Error     *string `json:"error,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type SettingsResponse struct {
	RetrainFrequency string   `json:"retrain_frequency"`
	DriftThreshold   float64  `json:"drift_threshold"`
	EnableAutoDeploy bool     `json:"enable_auto_deploy"`
	SlackWebhookURL  string   `json:"slack_webhook_url"`
	CandidateModels  []string `json:"candidate_models"`
	ExchangesEnabled []string `json:"exchanges_enabled"`
}

// NewTickerResponse maps a ticker entity to its wire shape.
func NewTickerResponse(t *Ticker) *TickerResponse {
	return &TickerResponse{
		Ticker:        t.Ticker,
		Name:          t.Name,
		Exchange:      t.Exchange,
		Status:        t.Status,
		CurrentModel:  t.CurrentModel,
		LastTrainedAt: util.FormatTimestampPtr(t.LastTrainedAt),
		DriftScore:    t.DriftScore,
		Accuracy:      t.Accuracy,
		UpdatedAt:     util.FormatTimestamp(t.UpdatedAt),
	}
}

// NewModelMetricsResponse maps a candidate model to its wire shape.
func NewModelMetricsResponse(m *CandidateModel) *ModelMetricsResponse {
	return &ModelMetricsResponse{
		Model:         m.Model,
		MAE:           m.MAE,
		RMSE:          m.RMSE,
		MAPE:          m.MAPE,
		R2:            m.R2,
		LastTrainedAt: util.FormatTimestamp(m.LastTrainedAt),
		Status:        m.Status,
		Recommended:   m.Recommended,
	}
}

// NewForecastPointResponse maps a forecast point to its wire shape.
func NewForecastPointResponse(p *ForecastPoint) ForecastPointResponse {
	return ForecastPointResponse{
		Date:      p.Date.UTC().Format("2006-01-02"),
		Actual:    p.Actual,
		Predicted: p.Predicted,
		Lower:     p.Lower,
		Upper:     p.Upper,
	}
}

// NewLogEntryResponse maps a log entry to its wire shape.
func NewLogEntryResponse(l *Log) LogEntryResponse {
	details := l.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	return LogEntryResponse{
		ID:        l.ID,
		Timestamp: util.FormatTimestamp(l.Timestamp),
		Ticker:    l.Ticker,
		Event:     l.Event,
		Status:    l.Status,
		Message:   l.Message,
		Details:   details,
	}
}

// NewSettingsResponse maps the settings singleton to its wire shape.
func NewSettingsResponse(s *Settings) *SettingsResponse {
	return &SettingsResponse{
		RetrainFrequency: s.RetrainFrequency,
		DriftThreshold:   s.DriftThreshold,
		EnableAutoDeploy: s.EnableAutoDeploy,
		SlackWebhookURL:  s.SlackWebhookURL,
		CandidateModels:  s.CandidateModels,
		ExchangesEnabled: s.ExchangesEnabled,
	}
}

// NewPipelineStatusResponse maps a run to its wire shape.
func NewPipelineStatusResponse(r *PipelineRun) *PipelineStatusResponse {
	updatedAt := util.FormatTimestamp(r.UpdatedAt)
	runID := r.ID
	return &PipelineStatusResponse{
		Ticker:    r.Ticker,
		RunID:     &runID,
		Status:    r.Status,
		Stage:     r.Stage,
		Progress:  r.Progress,
		Message:   r.Message,
		Error:     r.Error,
		UpdatedAt: &updatedAt,
	}
}

// NewIdlePipelineStatusResponse is the status body for a ticker that has
// never had a run.
func NewIdlePipelineStatusResponse(ticker string) *PipelineStatusResponse {
	return &PipelineStatusResponse{
		Ticker:   ticker,
		Status:   "idle",
		Stage:    "none",
		Progress: 0,
		Message:  "No pipeline runs yet",
	}
}
