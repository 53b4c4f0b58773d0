package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	BytesTransferred  *prometheus.CounterVec

	// Lock metrics
	LockWait *prometheus.HistogramVec

	// Registry metrics
	RegistryEntries   prometheus.Gauge
	RegistryExhausted prometheus.Counter

	// Audit metrics
	AuditFailures prometheus.Counter

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Running totals served by GET /health
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for the health endpoint
type MetricsSnapshot struct {
	TotalOperations  int64 `json:"total_operations"`
	FailedOperations int64 `json:"failed_operations"`
	AuditFailures    int64 `json:"audit_failures"`
	RegistryEntries  int64 `json:"registry_entries"`
	BytesTransferred int64 `json:"bytes_transferred"`
}

// NewMetrics creates a metrics collector registered with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileops_operations_total",
				Help: "Total number of file operations by outcome",
			},
			[]string{"operation", "status"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fileops_operation_duration_seconds",
				Help:    "File operation duration in seconds, including lock wait",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),
		BytesTransferred: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileops_bytes_transferred_total",
				Help: "Bytes read or written by file operations",
			},
			[]string{"operation"},
		),

		LockWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fileops_lock_wait_seconds",
				Help:    "Time spent waiting for a path lock",
				Buckets: []float64{.00001, .0001, .001, .01, .1, 1, 10},
			},
			[]string{"mode"},
		),

		RegistryEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fileops_registry_entries",
				Help: "Number of paths tracked by the lock registry",
			},
		),
		RegistryExhausted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fileops_registry_exhausted_total",
				Help: "Operations rejected because the lock registry was full",
			},
		),

		AuditFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fileops_audit_failures_total",
				Help: "Audit records that could not be written",
			},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fileops_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fileops_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
	}
}

// RecordOperation records the outcome of one file operation
func (m *Metrics) RecordOperation(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalOperations++
	if status != "ok" {
		m.snapshot.FailedOperations++
	}
	m.mu.Unlock()
}

// AddBytes records bytes moved by an operation
func (m *Metrics) AddBytes(operation string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.BytesTransferred.WithLabelValues(operation).Add(float64(n))

	m.mu.Lock()
	m.snapshot.BytesTransferred += n
	m.mu.Unlock()
}

// ObserveLockWait records how long a caller waited for a path lock
func (m *Metrics) ObserveLockWait(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.LockWait.WithLabelValues(mode).Observe(d.Seconds())
}

// SetRegistryEntries sets the number of tracked paths
func (m *Metrics) SetRegistryEntries(count int) {
	if m == nil {
		return
	}
	m.RegistryEntries.Set(float64(count))

	m.mu.Lock()
	m.snapshot.RegistryEntries = int64(count)
	m.mu.Unlock()
}

// IncRegistryExhausted counts an operation rejected for capacity
func (m *Metrics) IncRegistryExhausted() {
	if m == nil {
		return
	}
	m.RegistryExhausted.Inc()
}

// IncAuditFailures counts an audit record that was lost
func (m *Metrics) IncAuditFailures() {
	if m == nil {
		return
	}
	m.AuditFailures.Inc()

	m.mu.Lock()
	m.snapshot.AuditFailures++
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Snapshot returns a copy of the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
