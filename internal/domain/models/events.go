package models

import "time"

// Lifecycle event types published to the event stream.
const (
	EventTypePipelineQueued    = "pipeline.queued"
	EventTypePipelineSucceeded = "pipeline.succeeded"
	EventTypePipelineFailed    = "pipeline.failed"
	EventTypeModelDeployed     = "model.deployed"
)

// PipelineEvent is the payload published for pipeline and deployment
// lifecycle changes. Keyed by ticker on the wire so events for one
// symbol stay ordered.
type PipelineEvent struct {
	Type      string    `json:"type"`
	Ticker    string    `json:"ticker"`
	RunID     int64     `json:"run_id,omitempty"`
	Model     string    `json:"model,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
