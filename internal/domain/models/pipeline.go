package models

import "time"

// Pipeline run statuses.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// Pipeline run stages, in execution order.
const (
	StageQueued      = "queued"
	StageEDA         = "eda"
	StageExperiments = "experiments"
	StageFinalize    = "finalize"
	StageDone        = "done"
	StageError       = "error"
)

// PipelineRun tracks one asynchronous training run for a ticker.
// Progress only ever moves forward within a run.
type PipelineRun struct {
	ID        int64
	Ticker    string
	Status    string
	Stage     string
	Progress  float64
	Message   string
	StartedAt time.Time
	UpdatedAt time.Time
	Error     *string
}

// Terminal reports whether the run reached a final state.
func (r *PipelineRun) Terminal() bool {
	return r.Status == RunStatusSuccess || r.Status == RunStatusError
}
