package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ForecastOps/internal/domain/models"
)

func TestListLogsNewestFirst(t *testing.T) {
	repo := &fakeLogRepo{}
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		repo.entries = append(repo.entries, &models.Log{
			ID:        fmt.Sprintf("log_%04d", i),
			Timestamp: now.Add(time.Duration(i) * time.Minute),
			Ticker:    "AAPL",
			Event:     "training_completed",
			Status:    models.LogStatusSuccess,
		})
	}
	uc := NewLogsUseCase(repo)

	out, err := uc.List(context.Background(), "AAPL", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	if out[0].ID != "log_0004" {
		t.Fatalf("expected newest first, got %q", out[0].ID)
	}
}

func TestListLogsLimitClamped(t *testing.T) {
	repo := &fakeLogRepo{}
	uc := NewLogsUseCase(repo)

	if _, err := uc.List(context.Background(), "", -5); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := uc.List(context.Background(), "", MaxLogLimit+1); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestListLogsEmptyDetails(t *testing.T) {
	repo := &fakeLogRepo{entries: []*models.Log{{ID: "log_0001", Ticker: "AAPL", Event: "drift_detected", Status: models.LogStatusWarning}}}
	uc := NewLogsUseCase(repo)

	out, err := uc.List(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out[0].Details == nil {
		t.Fatal("details must serialize as an empty object, not null")
	}
}
