package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/internal/service/cache"
)

func testDispatcher(t *testing.T, tickers *fakeTickerRepo, runs *fakeRunRepo, logs *fakeLogRepo, q *fakeQueue, events *fakeEvents) *PipelineDispatcher {
	t.Helper()
	return NewPipelineDispatcher(tickers, runs, logs, q, events, newTestLogger(t))
}

func testExecutor(t *testing.T, runs *fakeRunRepo, tr *fakeTrainer, store *fakeArtifactStore, fin *fakeFinalizer, settings *fakeSettingsRepo, events *fakeEvents, m *fakeMetrics) *PipelineExecutor {
	t.Helper()
	forecasts := NewForecastUseCase(newFakeTickerRepo(), &fakeForecastRepo{}, cache.NewTTLCache(), time.Minute)
	return NewPipelineExecutor(runs, tr, store, fin, settings, forecasts, events, m, newTestLogger(t))
}

func sampleArtifacts(symbol string, runID int64) *models.TrainingArtifacts {
	now := time.Now().UTC()
	return &models.TrainingArtifacts{
		Models: []models.ModelArtifact{
			{Ticker: symbol, RunID: runID, Model: "LSTM", MAE: 1.2, RMSE: 1.9, MAPE: 0.03, R2: 0.91, Recommended: true, CreatedAt: now},
			{Ticker: symbol, RunID: runID, Model: "GRU", MAE: 1.4, RMSE: 2.1, MAPE: 0.04, R2: 0.88, CreatedAt: now},
		},
		Forecasts: []models.ForecastArtifact{
			{Ticker: symbol, RunID: runID, Date: now.AddDate(0, 0, 1), Predicted: 182.4, CreatedAt: now},
		},
	}
}

func TestDispatchCreatesRunAndEnqueues(t *testing.T) {
	tickers := newFakeTickerRepo("AAPL")
	runs := newFakeRunRepo()
	logs := &fakeLogRepo{}
	q := &fakeQueue{}
	events := &fakeEvents{}

	d := testDispatcher(t, tickers, runs, logs, q, events)

	resp, err := d.Dispatch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !resp.Accepted || resp.Ticker != "AAPL" {
		t.Fatalf("unexpected response %+v", resp)
	}

	run, err := runs.Latest(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if run.Status != models.RunStatusRunning || run.Stage != models.StageQueued || run.Progress != 0 {
		t.Fatalf("unexpected run state %+v", run)
	}

	if len(q.messages) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(q.messages))
	}
	payload, ok := q.messages[0].(RunJobPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", q.messages[0])
	}
	if payload.Ticker != "AAPL" || payload.RunID != run.ID {
		t.Fatalf("unexpected payload %+v", payload)
	}

	audit := logs.byEvent(models.EventPipelineRetryRequested)
	if len(audit) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audit))
	}
	if audit[0].Details["run_id"] != run.ID {
		t.Fatalf("audit entry missing run id: %+v", audit[0].Details)
	}

	if got := events.byType(models.EventTypePipelineQueued); len(got) != 1 {
		t.Fatalf("expected 1 queued event, got %d", len(got))
	}
}

func TestDispatchUnknownTicker(t *testing.T) {
	d := testDispatcher(t, newFakeTickerRepo(), newFakeRunRepo(), &fakeLogRepo{}, &fakeQueue{}, &fakeEvents{})

	if _, err := d.Dispatch(context.Background(), "MSFT"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDispatchTwiceCreatesTwoRuns(t *testing.T) {
	runs := newFakeRunRepo()
	d := testDispatcher(t, newFakeTickerRepo("AAPL"), runs, &fakeLogRepo{}, &fakeQueue{}, &fakeEvents{})

	for i := 0; i < 2; i++ {
		if _, err := d.Dispatch(context.Background(), "AAPL"); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}
	if len(runs.runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs.runs))
	}
}

func TestDispatchEnqueueFailureMarksRunFailed(t *testing.T) {
	runs := newFakeRunRepo()
	q := &fakeQueue{err: errQueueDown}
	d := testDispatcher(t, newFakeTickerRepo("AAPL"), runs, &fakeLogRepo{}, q, &fakeEvents{})

	if _, err := d.Dispatch(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected enqueue error")
	}

	run, err := runs.Latest(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if run.Status != models.RunStatusError || run.Stage != models.StageError || run.Progress != 100 {
		t.Fatalf("unexpected run state %+v", run)
	}
	if run.Message != "Failed to enqueue" {
		t.Fatalf("unexpected message %q", run.Message)
	}
	if run.Error == nil {
		t.Fatal("expected run error to be recorded")
	}
}

func TestExecuteSuccessTransitions(t *testing.T) {
	runs := newFakeRunRepo()
	run := &models.PipelineRun{Ticker: "AAPL", Status: models.RunStatusRunning, Stage: models.StageQueued, Message: "queued"}
	if err := runs.Create(context.Background(), run); err != nil {
		t.Fatalf("create: %v", err)
	}

	store := &fakeArtifactStore{artifacts: sampleArtifacts("AAPL", run.ID)}
	fin := &fakeFinalizer{}
	events := &fakeEvents{}
	m := newFakeMetrics()
	e := testExecutor(t, runs, &fakeTrainer{}, store, fin, &fakeSettingsRepo{}, events, m)

	e.Execute(context.Background(), "AAPL", run.ID)

	want := []runTransition{
		{models.RunStatusRunning, models.StageEDA, 5, "Running EDA/Preprocessing", nil},
		{models.RunStatusRunning, models.StageExperiments, 55, "Running Model Experiments", nil},
		{models.RunStatusRunning, models.StageFinalize, 90, "Finalizing artifacts", nil},
		{models.RunStatusSuccess, models.StageDone, 100, "Completed", nil},
	}
	if len(runs.transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %+v", len(want), len(runs.transitions), runs.transitions)
	}
	prev := -1.0
	for i, tr := range runs.transitions {
		if tr != want[i] {
			t.Fatalf("transition %d: got %+v, want %+v", i, tr, want[i])
		}
		if tr.Progress < prev {
			t.Fatalf("progress went backwards at %d: %v -> %v", i, prev, tr.Progress)
		}
		prev = tr.Progress
	}

	if fin.calls != 1 || fin.symbol != "AAPL" {
		t.Fatalf("finalizer not invoked as expected: %+v", fin)
	}
	if !fin.autoDeploy {
		t.Fatal("expected auto deploy from default settings")
	}
	if got := events.byType(models.EventTypePipelineSucceeded); len(got) != 1 {
		t.Fatalf("expected 1 succeeded event, got %d", len(got))
	}
	if m.started != 1 || m.finished[models.RunStatusSuccess] != 1 {
		t.Fatalf("unexpected metrics: started=%d finished=%v", m.started, m.finished)
	}
}

func TestExecuteMissingNotebooks(t *testing.T) {
	runs := newFakeRunRepo()
	run := &models.PipelineRun{Ticker: "AAPL", Status: models.RunStatusRunning, Stage: models.StageQueued, Message: "queued"}
	if err := runs.Create(context.Background(), run); err != nil {
		t.Fatalf("create: %v", err)
	}

	tr := &fakeTrainer{checkErr: errors.New("notebook 01_EDA_Preprocessing.ipynb not found in ./notebooks")}
	events := &fakeEvents{}
	e := testExecutor(t, runs, tr, &fakeArtifactStore{}, &fakeFinalizer{}, &fakeSettingsRepo{}, events, newFakeMetrics())

	e.Execute(context.Background(), "AAPL", run.ID)

	got, _ := runs.Get(context.Background(), run.ID)
	if got.Status != models.RunStatusError || got.Stage != models.StageQueued || got.Progress != 0 {
		t.Fatalf("unexpected run state %+v", got)
	}
	if got.Message != "Notebook(s) missing" {
		t.Fatalf("unexpected message %q", got.Message)
	}
	if got.Error == nil {
		t.Fatal("expected run error to be recorded")
	}
	if tr.edaRuns != 0 {
		t.Fatal("EDA must not run when prerequisites are missing")
	}
	if got := events.byType(models.EventTypePipelineFailed); len(got) != 1 {
		t.Fatalf("expected 1 failed event, got %d", len(got))
	}
}

func TestExecuteTrainingFailure(t *testing.T) {
	runs := newFakeRunRepo()
	run := &models.PipelineRun{Ticker: "AAPL", Status: models.RunStatusRunning, Stage: models.StageQueued, Message: "queued"}
	if err := runs.Create(context.Background(), run); err != nil {
		t.Fatalf("create: %v", err)
	}

	tr := &fakeTrainer{experimentsErr: errors.New("notebook 02_Model_Experiments.ipynb failed: exit status 1")}
	fin := &fakeFinalizer{}
	m := newFakeMetrics()
	e := testExecutor(t, runs, tr, &fakeArtifactStore{}, fin, &fakeSettingsRepo{}, &fakeEvents{}, m)

	e.Execute(context.Background(), "AAPL", run.ID)

	got, _ := runs.Get(context.Background(), run.ID)
	if got.Status != models.RunStatusError || got.Stage != models.StageError || got.Progress != 100 {
		t.Fatalf("unexpected run state %+v", got)
	}
	if got.Message != "Failed" {
		t.Fatalf("unexpected message %q", got.Message)
	}
	if got.Error == nil || *got.Error != tr.experimentsErr.Error() {
		t.Fatalf("expected verbatim error, got %v", got.Error)
	}
	if fin.calls != 0 {
		t.Fatal("finalizer must not run after a training failure")
	}
	if m.finished[models.RunStatusError] != 1 {
		t.Fatalf("unexpected metrics: %v", m.finished)
	}
}

func TestExecuteEmptyArtifactsFails(t *testing.T) {
	runs := newFakeRunRepo()
	run := &models.PipelineRun{Ticker: "AAPL", Status: models.RunStatusRunning, Stage: models.StageQueued, Message: "queued"}
	if err := runs.Create(context.Background(), run); err != nil {
		t.Fatalf("create: %v", err)
	}

	fin := &fakeFinalizer{}
	e := testExecutor(t, runs, &fakeTrainer{}, &fakeArtifactStore{}, fin, &fakeSettingsRepo{}, &fakeEvents{}, newFakeMetrics())

	e.Execute(context.Background(), "AAPL", run.ID)

	got, _ := runs.Get(context.Background(), run.ID)
	if got.Status != models.RunStatusError {
		t.Fatalf("expected error status, got %+v", got)
	}
	if fin.calls != 0 {
		t.Fatal("finalizer must not run without model artifacts")
	}
}

func TestStatusIdleWhenNeverRun(t *testing.T) {
	s := NewPipelineStatus(newFakeTickerRepo("AAPL"), newFakeRunRepo())

	status, err := s.Status(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != "idle" || status.Stage != "none" || status.Progress != 0 {
		t.Fatalf("unexpected idle body %+v", status)
	}
	if status.RunID != nil {
		t.Fatal("idle body must not carry a run id")
	}
	if status.Message != "No pipeline runs yet" {
		t.Fatalf("unexpected message %q", status.Message)
	}
}

func TestStatusReportsLatestRun(t *testing.T) {
	runs := newFakeRunRepo()
	for i := 0; i < 2; i++ {
		run := &models.PipelineRun{Ticker: "AAPL", Status: models.RunStatusRunning, Stage: models.StageQueued, Message: "queued"}
		if err := runs.Create(context.Background(), run); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := runs.Transition(context.Background(), 2, models.RunStatusRunning, models.StageExperiments, 55, "Running Model Experiments", nil); err != nil {
		t.Fatalf("transition: %v", err)
	}

	s := NewPipelineStatus(newFakeTickerRepo("AAPL"), runs)
	status, err := s.Status(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.RunID == nil || *status.RunID != 2 {
		t.Fatalf("expected latest run id 2, got %+v", status.RunID)
	}
	if status.Stage != models.StageExperiments || status.Progress != 55 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestStatusUnknownTicker(t *testing.T) {
	s := NewPipelineStatus(newFakeTickerRepo(), newFakeRunRepo())
	if _, err := s.Status(context.Background(), "MSFT"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
