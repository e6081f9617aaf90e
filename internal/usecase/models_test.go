package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ForecastOps/internal/domain/models"
)

func testModelsUseCase(t *testing.T, tickers *fakeTickerRepo, candidates *fakeModelRepo, logs *fakeLogRepo, events *fakeEvents, m *fakeMetrics) *ModelsUseCase {
	t.Helper()
	return NewModelsUseCase(tickers, candidates, logs, events, m, newTestLogger(t))
}

func candidateSet(symbol string) *fakeModelRepo {
	now := time.Now().UTC()
	return &fakeModelRepo{models: map[string][]*models.CandidateModel{
		symbol: {
			{Ticker: symbol, Model: "LSTM", MAE: 1.2, RMSE: 1.9, MAPE: 0.03, R2: 0.91, LastTrainedAt: now, Status: models.ModelStatusDeployed, Recommended: true},
			{Ticker: symbol, Model: "GRU", MAE: 1.5, RMSE: 2.3, MAPE: 0.05, R2: 0.87, LastTrainedAt: now, Status: models.ModelStatusCandidate},
		},
	}}
}

func TestListModels(t *testing.T) {
	uc := testModelsUseCase(t, newFakeTickerRepo("AAPL"), candidateSet("AAPL"), &fakeLogRepo{}, &fakeEvents{}, newFakeMetrics())

	out, err := uc.List(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 models, got %d", len(out))
	}
	if out[0].Model != "LSTM" || !out[0].Recommended {
		t.Fatalf("unexpected first model %+v", out[0])
	}
}

func TestListModelsUnknownTicker(t *testing.T) {
	uc := testModelsUseCase(t, newFakeTickerRepo(), &fakeModelRepo{}, &fakeLogRepo{}, &fakeEvents{}, newFakeMetrics())

	if _, err := uc.List(context.Background(), "MSFT"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListModelsEmptySet(t *testing.T) {
	uc := testModelsUseCase(t, newFakeTickerRepo("AAPL"), &fakeModelRepo{}, &fakeLogRepo{}, &fakeEvents{}, newFakeMetrics())

	if _, err := uc.List(context.Background(), "AAPL"); !errors.Is(err, ErrNoModels) {
		t.Fatalf("expected ErrNoModels, got %v", err)
	}
}

func TestDeployModel(t *testing.T) {
	previous := "LSTM"
	candidates := candidateSet("AAPL")
	candidates.previous = &previous
	logs := &fakeLogRepo{}
	events := &fakeEvents{}
	m := newFakeMetrics()
	uc := testModelsUseCase(t, newFakeTickerRepo("AAPL"), candidates, logs, events, m)

	resp, err := uc.Deploy(context.Background(), "AAPL", &models.DeployModelRequest{Model: "GRU"})
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if resp.DeployedModel != "GRU" {
		t.Fatalf("unexpected deployed model %q", resp.DeployedModel)
	}
	if resp.PreviousModel == nil || *resp.PreviousModel != "LSTM" {
		t.Fatalf("unexpected previous model %v", resp.PreviousModel)
	}
	if candidates.deployed != "GRU" {
		t.Fatalf("repository deploy not called: %q", candidates.deployed)
	}

	if len(logs.byEvent(models.EventModelDeployed)) != 1 {
		t.Fatal("expected model_deployed audit entry")
	}
	deployed := events.byType(models.EventTypeModelDeployed)
	if len(deployed) != 1 || deployed[0].Model != "GRU" {
		t.Fatalf("unexpected deploy events %+v", deployed)
	}
	if len(m.deploys) != 1 || m.deploys[0] != "GRU" {
		t.Fatalf("unexpected deploy metrics %v", m.deploys)
	}
}

func TestDeployModelNotInCandidates(t *testing.T) {
	uc := testModelsUseCase(t, newFakeTickerRepo("AAPL"), candidateSet("AAPL"), &fakeLogRepo{}, &fakeEvents{}, newFakeMetrics())

	if _, err := uc.Deploy(context.Background(), "AAPL", &models.DeployModelRequest{Model: "Prophet"}); !errors.Is(err, ErrNotCandidate) {
		t.Fatalf("expected ErrNotCandidate, got %v", err)
	}
}

func TestDeployModelRowVanished(t *testing.T) {
	candidates := candidateSet("AAPL")
	candidates.deployErr = models.ErrNotFound
	uc := testModelsUseCase(t, newFakeTickerRepo("AAPL"), candidates, &fakeLogRepo{}, &fakeEvents{}, newFakeMetrics())

	// The model row disappearing mid-deploy must not read as a missing
	// ticker.
	if _, err := uc.Deploy(context.Background(), "AAPL", &models.DeployModelRequest{Model: "GRU"}); !errors.Is(err, ErrNotCandidate) {
		t.Fatalf("expected ErrNotCandidate, got %v", err)
	}
}

func TestDeployModelUnknownTicker(t *testing.T) {
	uc := testModelsUseCase(t, newFakeTickerRepo(), candidateSet("AAPL"), &fakeLogRepo{}, &fakeEvents{}, newFakeMetrics())

	if _, err := uc.Deploy(context.Background(), "MSFT", &models.DeployModelRequest{Model: "LSTM"}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
