package models

import "time"

// ModelArtifact is one per-model metrics row written by the external
// training job, keyed by ticker and run.
type ModelArtifact struct {
	Ticker      string
	RunID       int64
	Model       string
	MAE         float64
	RMSE        float64
	MAPE        float64
	R2          float64
	Recommended bool
	CreatedAt   time.Time
}

// ForecastArtifact is one dated forecast row written by the external
// training job, keyed by ticker and run.
type ForecastArtifact struct {
	Ticker    string
	RunID     int64
	Date      time.Time
	Actual    *float64
	Predicted float64
	Lower     *float64
	Upper     *float64
	CreatedAt time.Time
}

// TrainingArtifacts bundles everything the finalize step reconciles
// back into the primary store.
type TrainingArtifacts struct {
	Models    []ModelArtifact
	Forecasts []ForecastArtifact
}

// Recommended returns the artifact flagged as the best model, or the
// one with the highest r2 when the job flagged none.
func (a *TrainingArtifacts) Recommended() *ModelArtifact {
	if len(a.Models) == 0 {
		return nil
	}
	best := &a.Models[0]
	for i := range a.Models {
		m := &a.Models[i]
		if m.Recommended {
			return m
		}
		if m.R2 > best.R2 {
			best = m
		}
	}
	return best
}
