package models

import "time"

// SettingsID is the fixed primary key of the singleton settings row.
const SettingsID = 1

// Settings is the singleton application configuration row.
type Settings struct {
	ID               int64
	RetrainFrequency string
	DriftThreshold   float64
	EnableAutoDeploy bool
	SlackWebhookURL  string
	CandidateModels  []string
	ExchangesEnabled []string
	UpdatedAt        time.Time
}

// DefaultSettings returns the settings row created on first access.
func DefaultSettings() *Settings {
	return &Settings{
		ID:               SettingsID,
		RetrainFrequency: "Weekly",
		DriftThreshold:   0.2,
		EnableAutoDeploy: true,
		SlackWebhookURL:  "",
		CandidateModels:  []string{"LSTM", "GRU", "Transformer", "XGBoost"},
		ExchangesEnabled: []string{"NYSE", "NASDAQ"},
		UpdatedAt:        time.Now().UTC(),
	}
}
