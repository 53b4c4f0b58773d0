package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOperation(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordOperation("write", "ok", 5*time.Millisecond)
	m.RecordOperation("write", "io_error", time.Millisecond)
	m.RecordOperation("read", "ok", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("write", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("write", "io_error")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalOperations)
	assert.Equal(t, int64(1), snap.FailedOperations)
}

func TestRegistryAndAuditCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.SetRegistryEntries(42)
	m.IncRegistryExhausted()
	m.IncAuditFailures()
	m.IncAuditFailures()
	m.AddBytes("copy", 1024)
	m.AddBytes("copy", 0)

	assert.Equal(t, 42.0, testutil.ToFloat64(m.RegistryEntries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryExhausted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuditFailures))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.BytesTransferred.WithLabelValues("copy")))

	snap := m.Snapshot()
	assert.Equal(t, int64(42), snap.RegistryEntries)
	assert.Equal(t, int64(2), snap.AuditFailures)
	assert.Equal(t, int64(1024), snap.BytesTransferred)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordOperation("read", "ok", time.Millisecond)
		m.AddBytes("read", 10)
		m.ObserveLockWait("shared", time.Millisecond)
		m.SetRegistryEntries(1)
		m.IncRegistryExhausted()
		m.IncAuditFailures()
		m.RecordHTTPRequest("GET", "/health", "200", time.Millisecond)
		NewTimer(m, "read").Stop("ok")
	})
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}

func TestSeparateRegistries(t *testing.T) {
	// Each registry gets its own collectors; no duplicate registration panic
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(Handler(reg)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/health", "200")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fileops_http_requests_total")
}
