package models

import "time"

// Ticker health statuses.
const (
	TickerStatusHealthy = "healthy"
	TickerStatusWarning = "warning"
	TickerStatusDrift   = "drift"
)

// Ticker represents a tracked stock symbol and the state of its
// currently deployed forecasting model.
type Ticker struct {
	Ticker        string
	Name          string
	Exchange      string
	Status        string
	CurrentModel  *string
	LastTrainedAt *time.Time
	DriftScore    *float64
	Accuracy      *float64
	UpdatedAt     time.Time
}
