package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopseed/shopseed/pkg/support/logger"
)

// PrometheusRecorder is a Prometheus implementation of the Recorder
// interface.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	jobDurationSeconds *prometheus.HistogramVec
	rowsGenerated      *prometheus.CounterVec
	batchFlushes       *prometheus.CounterVec
	skippedAttempts    *prometheus.CounterVec
}

// NewPrometheusRecorder creates a new PrometheusRecorder with its own
// registry, including the standard Go and process collectors.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		jobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopseed_job_duration_seconds",
			Help:    "Duration of generator job runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job_name", "status"}),
		rowsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopseed_rows_generated_total",
			Help: "Total rows generated per table.",
		}, []string{"job_name", "table"}),
		batchFlushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopseed_batch_flush_total",
			Help: "Total flushed batches per table.",
		}, []string{"job_name", "table"}),
		skippedAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopseed_skipped_attempts_total",
			Help: "Total simulated payment attempts skipped, by reason.",
		}, []string{"reason"}),
	}
	registry.MustRegister(r.jobDurationSeconds, r.rowsGenerated, r.batchFlushes, r.skippedAttempts)
	return r
}

func (r *PrometheusRecorder) RecordJobDuration(jobName, status string, d time.Duration) {
	r.jobDurationSeconds.WithLabelValues(jobName, status).Observe(d.Seconds())
}

func (r *PrometheusRecorder) RecordRowsGenerated(jobName, table string, n int64) {
	r.rowsGenerated.WithLabelValues(jobName, table).Add(float64(n))
}

func (r *PrometheusRecorder) RecordBatchFlush(jobName, table string) {
	r.batchFlushes.WithLabelValues(jobName, table).Inc()
}

func (r *PrometheusRecorder) RecordSkippedAttempt(reason string) {
	r.skippedAttempts.WithLabelValues(reason).Inc()
}

// Serve exposes /metrics on the given address in a background goroutine.
// Used for long runs where progress is scraped while the generator works.
func (r *PrometheusRecorder) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Errorf("Metrics endpoint stopped: %v", err)
		}
	}()
	logger.Infof("Metrics endpoint listening on %s/metrics", addr)
}
