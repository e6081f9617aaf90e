package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ForecastOps/internal/domain/models"
	"ForecastOps/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return lgr
}

type fakeTickerRepo struct {
	mu      sync.Mutex
	tickers map[string]*models.Ticker
}

func newFakeTickerRepo(symbols ...string) *fakeTickerRepo {
	r := &fakeTickerRepo{tickers: make(map[string]*models.Ticker)}
	for _, s := range symbols {
		r.tickers[s] = &models.Ticker{
			Ticker:    s,
			Name:      s,
			Exchange:  "NASDAQ",
			Status:    models.TickerStatusWarning,
			UpdatedAt: time.Now().UTC(),
		}
	}
	return r
}

func (r *fakeTickerRepo) List(context.Context) ([]*models.Ticker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Ticker, 0, len(r.tickers))
	for _, t := range r.tickers {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTickerRepo) Get(_ context.Context, symbol string) (*models.Ticker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickers[symbol]
	if !ok {
		return nil, models.ErrNotFound
	}
	return t, nil
}

func (r *fakeTickerRepo) Create(_ context.Context, t *models.Ticker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickers[t.Ticker]; ok {
		return models.ErrDuplicate
	}
	r.tickers[t.Ticker] = t
	return nil
}

func (r *fakeTickerRepo) Delete(_ context.Context, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickers[symbol]; !ok {
		return models.ErrNotFound
	}
	delete(r.tickers, symbol)
	return nil
}

func (r *fakeTickerRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickers), nil
}

type fakeModelRepo struct {
	models    map[string][]*models.CandidateModel
	deployed  string
	previous  *string
	deployErr error
}

func (r *fakeModelRepo) ListByTicker(_ context.Context, symbol string) ([]*models.CandidateModel, error) {
	return r.models[symbol], nil
}

func (r *fakeModelRepo) Deploy(_ context.Context, symbol, model string) (*string, error) {
	if r.deployErr != nil {
		return nil, r.deployErr
	}
	r.deployed = model
	return r.previous, nil
}

type fakeForecastRepo struct {
	points []*models.ForecastPoint
	calls  int
}

func (r *fakeForecastRepo) ListByTicker(_ context.Context, _ string, horizon int) ([]*models.ForecastPoint, error) {
	r.calls++
	if horizon < len(r.points) {
		return r.points[:horizon], nil
	}
	return r.points, nil
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []*models.Log
}

func (r *fakeLogRepo) Append(_ context.Context, l *models.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, l)
	return nil
}

func (r *fakeLogRepo) List(_ context.Context, symbol string, limit int) ([]*models.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Log, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if symbol == "" || r.entries[i].Ticker == symbol {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeLogRepo) byEvent(event string) []*models.Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Log
	for _, l := range r.entries {
		if l.Event == event {
			out = append(out, l)
		}
	}
	return out
}

type fakeSettingsRepo struct {
	settings *models.Settings
	updates  int
}

func (r *fakeSettingsRepo) Get(context.Context) (*models.Settings, error) {
	if r.settings == nil {
		r.settings = models.DefaultSettings()
	}
	return r.settings, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, s *models.Settings) error {
	r.settings = s
	r.updates++
	return nil
}

type runTransition struct {
	Status   string
	Stage    string
	Progress float64
	Message  string
	Err      *string
}

type fakeRunRepo struct {
	mu          sync.Mutex
	nextID      int64
	runs        map[int64]*models.PipelineRun
	transitions []runTransition
	createErr   error
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[int64]*models.PipelineRun)}
}

func (r *fakeRunRepo) Create(_ context.Context, run *models.PipelineRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	run.ID = r.nextID
	run.StartedAt = time.Now().UTC()
	run.UpdatedAt = run.StartedAt
	cp := *run
	r.runs[run.ID] = &cp
	return nil
}

func (r *fakeRunRepo) Get(_ context.Context, id int64) (*models.PipelineRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return run, nil
}

func (r *fakeRunRepo) Latest(_ context.Context, symbol string) (*models.PipelineRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.PipelineRun
	for _, run := range r.runs {
		if run.Ticker != symbol {
			continue
		}
		if latest == nil || run.ID > latest.ID {
			latest = run
		}
	}
	if latest == nil {
		return nil, models.ErrNotFound
	}
	return latest, nil
}

func (r *fakeRunRepo) Transition(_ context.Context, id int64, status, stage string, progress float64, message string, runErr *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return models.ErrNotFound
	}
	run.Status = status
	run.Stage = stage
	run.Progress = progress
	run.Message = message
	run.Error = runErr
	run.UpdatedAt = time.Now().UTC()
	r.transitions = append(r.transitions, runTransition{status, stage, progress, message, runErr})
	return nil
}

type fakeFinalizer struct {
	calls      int
	symbol     string
	autoDeploy bool
	artifacts  *models.TrainingArtifacts
	err        error
}

func (f *fakeFinalizer) Finalize(_ context.Context, symbol string, artifacts *models.TrainingArtifacts, autoDeploy bool) error {
	f.calls++
	f.symbol = symbol
	f.artifacts = artifacts
	f.autoDeploy = autoDeploy
	return f.err
}

type fakeArtifactStore struct {
	artifacts *models.TrainingArtifacts
	err       error
}

func (s *fakeArtifactStore) Init(context.Context) error { return nil }
func (s *fakeArtifactStore) Load(context.Context, string, int64) (*models.TrainingArtifacts, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.artifacts == nil {
		return &models.TrainingArtifacts{}, nil
	}
	return s.artifacts, nil
}
func (s *fakeArtifactStore) Health(context.Context) error { return nil }

func (s *fakeArtifactStore) Close() error { return nil }

type fakeEvents struct {
	mu     sync.Mutex
	events []*models.PipelineEvent
}

func (p *fakeEvents) Publish(_ context.Context, e *models.PipelineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakeEvents) Close() error { return nil }

func (p *fakeEvents) byType(eventType string) []*models.PipelineEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*models.PipelineEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeTrainer struct {
	checkErr       error
	edaErr         error
	experimentsErr error
	edaRuns        int
	expRuns        int
}

func (t *fakeTrainer) Check() error { return t.checkErr }
func (t *fakeTrainer) RunEDA(context.Context, string, int64) error {
	t.edaRuns++
	return t.edaErr
}
func (t *fakeTrainer) RunExperiments(context.Context, string, int64) error {
	t.expRuns++
	return t.experimentsErr
}

type fakeMetrics struct {
	mu       sync.Mutex
	started  int
	finished map[string]int
	deploys  []string
	tracked  int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{finished: make(map[string]int)}
}

func (m *fakeMetrics) RecordRunStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *fakeMetrics) RecordRunFinished(status string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished[status]++
}

func (m *fakeMetrics) RecordDeploy(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deploys = append(m.deploys, model)
}

func (m *fakeMetrics) RecordError(string) {}

func (m *fakeMetrics) RecordStoreLatency(string, float64) {}

func (m *fakeMetrics) SetTickersTracked(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked = n
}

type fakeQueue struct {
	mu       sync.Mutex
	messages []interface{}
	err      error
}

func (q *fakeQueue) PublishMessage(_ context.Context, _ string, payload interface{}) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, payload)
	return nil
}

var errQueueDown = errors.New("queue unavailable")
