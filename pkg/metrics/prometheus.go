package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal      *prometheus.CounterVec
	runsInFlight   prometheus.Gauge
	runDuration    *prometheus.HistogramVec
	deploysTotal   *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	storeLatency   *prometheus.HistogramVec
	tickersTracked prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastops_pipeline_runs_total",
				Help: "Total number of finished pipeline runs by terminal status",
			},
			[]string{"status"},
		),
		runsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "forecastops_pipeline_runs_in_flight",
				Help: "Number of pipeline runs currently executing",
			},
		),
		runDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecastops_pipeline_run_duration_seconds",
				Help:    "Wall-clock duration of pipeline runs",
				Buckets: []float64{1, 10, 30, 60, 120, 300, 600, 1200, 1800, 3600},
			},
			[]string{"status"},
		),
		deploysTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastops_model_deploys_total",
				Help: "Total number of model deployments",
			},
			[]string{"model"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecastops_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		storeLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecastops_store_operation_duration_seconds",
				Help:    "Duration of store operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		tickersTracked: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "forecastops_tickers_tracked",
				Help: "Number of tickers currently tracked",
			},
		),
	}
}

// RecordRunStarted marks a pipeline run as executing.
func (r *Recorder) RecordRunStarted() {
	r.runsInFlight.Inc()
}

// RecordRunFinished records a finished run with its terminal status.
func (r *Recorder) RecordRunFinished(status string, seconds float64) {
	r.runsInFlight.Dec()
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.WithLabelValues(status).Observe(seconds)
}

// RecordDeploy records a model deployment.
func (r *Recorder) RecordDeploy(model string) {
	r.deploysTotal.WithLabelValues(model).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordStoreLatency records store operation latency in seconds.
func (r *Recorder) RecordStoreLatency(op string, seconds float64) {
	r.storeLatency.WithLabelValues(op).Observe(seconds)
}

// SetTickersTracked sets the tracked-ticker gauge.
func (r *Recorder) SetTickersTracked(n int) {
	r.tickersTracked.Set(float64(n))
}
