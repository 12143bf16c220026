package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.ObserveHTTP("/api/trips", http.MethodGet, 200, 5*time.Millisecond)
	m.ObserveExternal("unsplash", "search", 429, time.Millisecond)
	m.ObserveCache("redis", "hit")
	m.ObserveCache("redis", "hit")
	m.ObservePipeline("degraded", "none")
	m.ObserveModelAttempt("gemini-pro", nil)
	m.ObserveModelAttempt("gemini-pro", errors.New("x"))
	m.ObserveDegradation("images_unavailable")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/trips", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.externalRequests.WithLabelValues("unsplash", "search", "429")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheEvents.WithLabelValues("redis", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues("degraded", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelAttempts.WithLabelValues("gemini-pro", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelAttempts.WithLabelValues("gemini-pro", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.degradations.WithLabelValues("images_unavailable")))
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.ObservePipeline("complete", "none")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tourvisto_trip_generation_total{kind="none",status="complete"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTP("/", "GET", 200, time.Millisecond)
		m.ObserveExternal("s", "e", 0, time.Millisecond)
		m.ObserveCache("c", "miss")
		m.ObservePipeline("failed", "persistence")
		m.ObserveModelAttempt("m", nil)
		m.ObserveDegradation("d")
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterDB(t *testing.T) {
	m := New()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, m.RegisterDB(db, "tourvisto"))
	assert.Error(t, m.RegisterDB(db, "tourvisto"), "registering the same pool twice should fail")

	var nilMetrics *Metrics
	assert.NoError(t, nilMetrics.RegisterDB(db, "tourvisto"))
}
