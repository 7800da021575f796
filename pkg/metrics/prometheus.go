// Package metrics provides Prometheus metrics for the lbet leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the lbet service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Cache Metrics - hit ratio is the main health signal of this service
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheWrites    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheDropped   prometheus.Counter

	// Upstream Fetch Metrics
	sheetFetches      prometheus.Counter
	sheetFetchErrors  prometheus.Counter
	sheetFetchLatency prometheus.Histogram
	betlogFetches     prometheus.Counter
	betlogFetchErrors prometheus.Counter
	betlogPagesFanned prometheus.Counter

	// Business Metrics
	playerQueries   prometheus.Counter
	playersNotFound prometheus.Counter
	rankedPlayers   prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lbet",
		subsystem:        "rank",
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
	auto := promauto.With(m.registry)

	m.cacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of cache reads that returned a valid entry",
	}, []string{"kind"})

	m.cacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of cache reads that missed or were stale",
	}, []string{"kind"})

	m.cacheWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_writes_total",
		Help:      "Total number of successful cache writes",
	})

	m.cacheEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_evictions_total",
		Help:      "Total number of keys evicted under storage quota pressure",
	})

	m.cacheDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_dropped_writes_total",
		Help:      "Total number of writes abandoned after eviction and retry failed",
	})

	m.sheetFetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sheet_fetches_total",
		Help:      "Total number of spreadsheet CSV export fetches",
	})

	m.sheetFetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sheet_fetch_errors_total",
		Help:      "Total number of failed spreadsheet CSV export fetches",
	})

	m.sheetFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sheet_fetch_latency_milliseconds",
		Help:      "Histogram of spreadsheet fetch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.betlogFetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "betlog_fetches_total",
		Help:      "Total number of bet-summary API queries",
	})

	m.betlogFetchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "betlog_fetch_errors_total",
		Help:      "Total number of failed bet-summary API queries",
	})

	m.betlogPagesFanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "betlog_pages_fetched_total",
		Help:      "Total number of bet-detail pages fetched, including fan-out pages",
	})

	m.playerQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_queries_total",
		Help:      "Total number of player rank queries",
	})

	m.playersNotFound = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_not_found_total",
		Help:      "Total number of player queries that matched no record",
	})

	m.rankedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranked_players",
		Help:      "Number of players in the most recently computed weekly ranking",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Registry returns the registry all global metrics are registered on.
// The HTTP layer exposes it via promhttp.
func Registry() *prometheus.Registry { return customRegistry }

// Package-level recording helpers backed by the global manager.

func RecordCacheHit(kind string)  { globalManager.cacheHits.WithLabelValues(kind).Inc() }
func RecordCacheMiss(kind string) { globalManager.cacheMisses.WithLabelValues(kind).Inc() }
func RecordCacheWrite()           { globalManager.cacheWrites.Inc() }
func RecordCacheEviction()        { globalManager.cacheEvictions.Inc() }
func RecordCacheDroppedWrite()    { globalManager.cacheDropped.Inc() }

func RecordSheetFetch()      { globalManager.sheetFetches.Inc() }
func RecordSheetFetchError() { globalManager.sheetFetchErrors.Inc() }
func RecordSheetFetchLatency(ms float64) {
	globalManager.sheetFetchLatency.Observe(ms)
}

func RecordBetlogFetch()          { globalManager.betlogFetches.Inc() }
func RecordBetlogFetchError()     { globalManager.betlogFetchErrors.Inc() }
func RecordBetlogPages(pages int) { globalManager.betlogPagesFanned.Add(float64(pages)) }

func RecordPlayerQuery()    { globalManager.playerQueries.Inc() }
func RecordPlayerNotFound() { globalManager.playersNotFound.Inc() }
func UpdateRankedPlayers(n int) {
	globalManager.rankedPlayers.Set(float64(n))
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
