// Package metrics provides Prometheus metrics for the reelpick recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the reelpick service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core Business Metrics - session and pick flow
	sessionsCreated prometheus.Counter
	sessionsEnded   prometheus.Counter
	sessionsActive  prometheus.Gauge
	picksProcessed  prometheus.Counter
	likedPicks      prometheus.Counter
	fallbackPicks   *prometheus.CounterVec
	strategyLatency *prometheus.HistogramVec

	// Catalog Metrics - static after load, useful for dashboards
	catalogItems prometheus.Gauge
	catalogUsers prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// customRegistry keeps our metrics separate from the default registry.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // paired with globalManager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "reelpick",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Register on the configured registry (custom by default).
	auto := promauto.With(m.registry)

	m.sessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_created_total",
		Help:      "Total number of recommendation sessions created",
	})

	m.sessionsEnded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_ended_total",
		Help:      "Total number of recommendation sessions explicitly ended",
	})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_active",
		Help:      "Current number of live recommendation sessions",
	})

	m.picksProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "picks_processed_total",
		Help:      "Total number of picks recorded across all sessions",
	})

	m.likedPicks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "liked_picks_total",
		Help:      "Total number of picks rated above the liked threshold",
	})

	m.fallbackPicks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fallback_picks_total",
			Help:      "Total number of random-fallback recommendations by strategy",
		},
		[]string{"strategy"},
	)

	m.strategyLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "strategy_latency_milliseconds",
			Help:      "Histogram of per-strategy recommendation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"strategy"},
	)

	m.catalogItems = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_items",
		Help:      "Number of movies in the loaded catalog",
	})

	m.catalogUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_users",
		Help:      "Number of rating profiles in the loaded catalog",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)
}

// RecordSessionCreated increments the sessions created counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionEnded increments the sessions ended counter.
func RecordSessionEnded() {
	globalManager.sessionsEnded.Inc()
}

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordPick increments the picks processed counter.
func RecordPick() {
	globalManager.picksProcessed.Inc()
}

// RecordLikedPick increments the liked picks counter.
func RecordLikedPick() {
	globalManager.likedPicks.Inc()
}

// RecordFallback increments the fallback counter for a strategy.
func RecordFallback(strategy string) {
	globalManager.fallbackPicks.WithLabelValues(strategy).Inc()
}

// RecordStrategyLatency records one strategy evaluation in milliseconds.
func RecordStrategyLatency(strategy string, latencyMs float64) {
	globalManager.strategyLatency.WithLabelValues(strategy).Observe(latencyMs)
}

// UpdateCatalogSize sets the catalog gauges after load.
func UpdateCatalogSize(items, users int) {
	globalManager.catalogItems.Set(float64(items))
	globalManager.catalogUsers.Set(float64(users))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError increments the error counter for a component.
func RecordError(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
