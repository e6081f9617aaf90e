package models

import "time"

// Candidate model statuses.
const (
	ModelStatusCandidate = "candidate"
	ModelStatusDeployed  = "deployed"
)

// CandidateModel holds the evaluation metrics of one trained model
// for one ticker. The latest training run replaces the whole set.
type CandidateModel struct {
	ID            int64
	Ticker        string
	Model         string
	MAE           float64
	RMSE          float64
	MAPE          float64
	R2            float64
	LastTrainedAt time.Time
	Status        string
	Recommended   bool
}
