// Package metrics provides Prometheus metrics for the passnet service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by passnet.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Aggregation
	aggregations       prometheus.Counter
	aggregationLatency prometheus.Histogram
	graphNodes         prometheus.Gauge
	graphEdges         prometheus.Gauge
	eventsAggregated   prometheus.Counter
	eventsSkipped      *prometheus.CounterVec
	emptyGraphs        prometheus.Counter

	// Interaction
	interactions *prometheus.CounterVec

	// Upstream stats API
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec

	// Sessions
	activeSessions prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "passnet",
		subsystem:        "network",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.aggregations = auto.NewCounter(m.counterOpts("aggregations_total",
		"Total number of passing network aggregations"))
	m.aggregationLatency = auto.NewHistogram(m.histogramOpts("aggregation_latency_milliseconds",
		"Aggregation latency in milliseconds"))
	m.graphNodes = auto.NewGauge(m.gaugeOpts("graph_nodes",
		"Node count of the most recent aggregation"))
	m.graphEdges = auto.NewGauge(m.gaugeOpts("graph_edges",
		"Edge count of the most recent aggregation"))
	m.eventsAggregated = auto.NewCounter(m.counterOpts("events_aggregated_total",
		"Pass events that contributed to a node or edge weight"))
	m.eventsSkipped = auto.NewCounterVec(m.counterOpts("events_skipped_total",
		"Events excluded from aggregation by reason"), []string{"reason"})
	m.emptyGraphs = auto.NewCounter(m.counterOpts("empty_graphs_total",
		"Aggregations that produced no nodes"))

	m.interactions = auto.NewCounterVec(m.counterOpts("interactions_total",
		"Pointer interactions by kind and outcome"), []string{"kind", "outcome"})

	m.upstreamRequests = auto.NewCounterVec(m.counterOpts("upstream_requests_total",
		"Requests to the stats API by endpoint and status"), []string{"endpoint", "status"})
	m.upstreamLatency = auto.NewHistogramVec(m.histogramOpts("upstream_latency_milliseconds",
		"Stats API request latency in milliseconds"), []string{"endpoint"})
	m.cacheLookups = auto.NewCounterVec(m.counterOpts("cache_lookups_total",
		"Upstream response cache lookups by result"), []string{"result"})

	m.activeSessions = auto.NewGauge(m.gaugeOpts("active_sessions",
		"Viewer sessions currently held in memory"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"HTTP requests by endpoint, method and status code"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"HTTP errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorsByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"HTTP errors by type and severity"), []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
}

// RecordAggregation records one aggregation run and the size of its output.
func RecordAggregation(latencyMs float64, nodes, edges, used int) {
	globalManager.aggregations.Inc()
	globalManager.aggregationLatency.Observe(latencyMs)
	globalManager.graphNodes.Set(float64(nodes))
	globalManager.graphEdges.Set(float64(edges))
	globalManager.eventsAggregated.Add(float64(used))
	if nodes == 0 {
		globalManager.emptyGraphs.Inc()
	}
}

// RecordEventsSkipped adds n skipped events under reason.
func RecordEventsSkipped(reason string, n int) {
	if n <= 0 {
		return
	}
	globalManager.eventsSkipped.WithLabelValues(reason).Add(float64(n))
}

// RecordInteraction counts a pointer interaction. outcome is "applied" or "ignored".
func RecordInteraction(kind, outcome string) {
	globalManager.interactions.WithLabelValues(kind, outcome).Inc()
}

// RecordUpstreamRequest records a stats API call.
func RecordUpstreamRequest(endpoint, status string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(endpoint, status).Inc()
	globalManager.upstreamLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordCacheHit counts an upstream cache hit.
func RecordCacheHit() {
	globalManager.cacheLookups.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts an upstream cache miss.
func RecordCacheMiss() {
	globalManager.cacheLookups.WithLabelValues("miss").Inc()
}

// UpdateActiveSessions sets the number of live viewer sessions.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
