// Package metrics holds the Prometheus collectors of the service and the
// handler that exposes them. A nil *Metrics is valid and records nothing.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tourvisto"

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	externalRequests *prometheus.CounterVec
	externalLatency  *prometheus.HistogramVec
	cacheEvents      *prometheus.CounterVec
	pipelineRuns     *prometheus.CounterVec
	modelAttempts    *prometheus.CounterVec
	degradations     *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Name: "http_request_duration_seconds",
				Help:    "HTTP request duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		externalRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "external_requests_total", Help: "Outbound requests."},
			[]string{"service", "endpoint", "status"},
		),
		externalLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace, Name: "external_request_duration_seconds",
				Help:    "Outbound request duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "endpoint"},
		),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets."},
			[]string{"cache", "event"},
		),
		pipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "trip_generation_total", Help: "Trip generation outcomes."},
			[]string{"status", "kind"},
		),
		modelAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "model_attempts_total", Help: "Text model attempts."},
			[]string{"model", "outcome"},
		),
		degradations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "trip_degradations_total", Help: "Best-effort steps that failed."},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpLatency,
		m.externalRequests, m.externalLatency,
		m.cacheEvents,
		m.pipelineRuns, m.modelAttempts, m.degradations,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RegisterDB exports connection pool statistics of db.
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	if m == nil || db == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound call. Status 0 means a transport error.
func (m *Metrics) ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.externalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	m.externalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

// ObserveCache records a cache event: hit, miss, set or error.
func (m *Metrics) ObserveCache(cache, event string) {
	if m == nil {
		return
	}
	m.cacheEvents.WithLabelValues(cache, event).Inc()
}

// ObservePipeline records the outcome of one trip generation.
func (m *Metrics) ObservePipeline(status, kind string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(status, kind).Inc()
}

// ObserveModelAttempt records one text model attempt.
func (m *Metrics) ObserveModelAttempt(model string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.modelAttempts.WithLabelValues(model, outcome).Inc()
}

// ObserveDegradation records a failed best-effort step.
func (m *Metrics) ObserveDegradation(kind string) {
	if m == nil {
		return
	}
	m.degradations.WithLabelValues(kind).Inc()
}
