package models

import "time"

// Audit log events.
const (
	EventPipelineRetryRequested = "pipeline_retry_requested"
	EventModelDeployed          = "model_deployed"
	EventTickerAdded            = "ticker_added"
)

// Log statuses.
const (
	LogStatusSuccess = "success"
	LogStatusWarning = "warning"
	LogStatusError   = "error"
)

// Log is one append-only audit log entry.
type Log struct {
	ID        string
	Timestamp time.Time
	Ticker    string
	Event     string
	Status    string
	Message   string
	Details   map[string]interface{}
}
