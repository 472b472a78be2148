// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pricewatch/internal/querycache"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Backend boundary metrics
	InvokeLatency *prometheus.HistogramVec
	InvokeErrors  *prometheus.CounterVec

	// Event stream metrics
	EventsReceived *prometheus.CounterVec
	WSReconnects   prometheus.Counter

	// Query cache metrics
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheSets          prometheus.Counter
	CacheInvalidations prometheus.Counter

	// Mutation metrics
	ReordersTotal   *prometheus.CounterVec
	BulkRunsTotal   *prometheus.CounterVec
	BulkRunDuration prometheus.Histogram

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pricewatch"
	}

	return &Metrics{
		InvokeLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "invoke_latency_seconds",
			Help:      "Backend invoke latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		InvokeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "invoke_errors_total",
			Help:      "Total number of failed backend invokes",
		}, []string{"command"}),

		EventsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "received_total",
			Help:      "Total number of push events received by name",
		}, []string{"event"}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnects",
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of query cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of query cache misses",
		}),
		CacheSets: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "sets_total",
			Help:      "Total number of query cache writes",
		}),
		CacheInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Total number of query cache invalidations",
		}),

		ReordersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mutations",
			Name:      "reorders_total",
			Help:      "Total number of reorder mutations by kind and status",
		}, []string{"kind", "status"}),
		BulkRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mutations",
			Name:      "bulk_runs_total",
			Help:      "Total number of bulk check runs by status",
		}, []string{"status"}),
		BulkRunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mutations",
			Name:      "bulk_run_duration_seconds",
			Help:      "Bulk check run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last fully successful bulk run",
		}),
	}
}

// InvokeObserver adapts the metrics to the backend client's observer
// callback.
func (m *Metrics) InvokeObserver() func(command string, d time.Duration, err error) {
	return func(command string, d time.Duration, err error) {
		m.InvokeLatency.WithLabelValues(command).Observe(d.Seconds())
		if err != nil {
			m.InvokeErrors.WithLabelValues(command).Inc()
		}
	}
}

// CacheHooks adapts the metrics to the query cache's event hooks.
func (m *Metrics) CacheHooks() querycache.Hooks {
	return querycache.Hooks{
		OnHit:        func(querycache.Key) { m.CacheHits.Inc() },
		OnMiss:       func(querycache.Key) { m.CacheMisses.Inc() },
		OnSet:        func(querycache.Key) { m.CacheSets.Inc() },
		OnInvalidate: func(querycache.Key) { m.CacheInvalidations.Inc() },
	}
}

// RecordEvent counts one received push event.
func (m *Metrics) RecordEvent(event string) {
	m.EventsReceived.WithLabelValues(event).Inc()
}

// RecordReorder counts one settled reorder mutation.
func (m *Metrics) RecordReorder(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ReordersTotal.WithLabelValues(kind, status).Inc()
}

// RecordBulkRun counts one settled bulk run and its duration.
func (m *Metrics) RecordBulkRun(failed int, d time.Duration, err error) {
	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case failed > 0:
		status = "partial"
	default:
		m.LastSuccessfulRun.Set(float64(time.Now().Unix()))
	}
	m.BulkRunsTotal.WithLabelValues(status).Inc()
	m.BulkRunDuration.Observe(d.Seconds())
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
