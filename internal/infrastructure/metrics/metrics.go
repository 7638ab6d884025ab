package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oncovoice"

// Metrics holds the service's Prometheus collectors.
// All methods are safe to call on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	jobsTotal        *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
	queueDepth       prometheus.Gauge
	providerDuration *prometheus.HistogramVec
	providerTotal    *prometheus.CounterVec
	uploadsTotal     *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analysis_jobs_total",
				Help:      "Analysis jobs by terminal status",
			},
			[]string{"status"}, // completed, failed
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_job_duration_seconds",
				Help:      "Wall time of analysis jobs from dequeue to terminal write",
				Buckets:   []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"status"},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "analysis_queue_depth",
				Help:      "Jobs waiting for a worker",
			},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Duration of AI provider calls in seconds",
				Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"provider", "operation"},
		),
		providerTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "AI provider calls by outcome",
			},
			[]string{"provider", "operation", "status"}, // status: success, error
		),
		uploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "Upload attempts by kind and outcome",
			},
			[]string{"kind", "status"},
		),
	}

	m.registry.MustRegister(
		m.jobsTotal,
		m.jobDuration,
		m.queueDepth,
		m.providerDuration,
		m.providerTotal,
		m.uploadsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveJob records a finished analysis job
func (m *Metrics) ObserveJob(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(status).Inc()
	m.jobDuration.WithLabelValues(status).Observe(d.Seconds())
}

// SetQueueDepth records the number of queued jobs
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// ObserveProvider records one AI provider call
func (m *Metrics) ObserveProvider(provider, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.providerDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
	m.providerTotal.WithLabelValues(provider, operation, status).Inc()
}

// ObserveUpload records an upload attempt
func (m *Metrics) ObserveUpload(kind string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.uploadsTotal.WithLabelValues(kind, status).Inc()
}
