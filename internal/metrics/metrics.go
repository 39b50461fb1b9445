package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Recommendation engine metrics
	RecommendationsTotal   *prometheus.CounterVec
	RecommendationDuration *prometheus.HistogramVec
	RecommendationResults  prometheus.Histogram

	// Tag options cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Ingestion metrics
	IngestedArtistsTotal    prometheus.Counter
	IngestedRecordingsTotal prometheus.Counter
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the singleton metrics instance, registering collectors on
// first use.
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "songsearch_http_requests_total",
					Help: "Total HTTP requests by method, path and status",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "songsearch_http_request_duration_seconds",
					Help:    "HTTP request latency by method and path",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "path"},
			),
			RecommendationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "songsearch_recommendations_total",
					Help: "Recommendation calls by outcome (ok, config_error, storage_error)",
				},
				[]string{"outcome"},
			),
			RecommendationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "songsearch_recommendation_duration_seconds",
					Help:    "Recommendation call latency by outcome",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"outcome"},
			),
			RecommendationResults: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "songsearch_recommendation_results",
					Help:    "Distinct recordings returned per recommendation call",
					Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
				},
			),
			CacheHitsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "songsearch_cache_hits_total",
					Help: "Cache hits by cache name",
				},
				[]string{"cache"},
			),
			CacheMissesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "songsearch_cache_misses_total",
					Help: "Cache misses by cache name",
				},
				[]string{"cache"},
			),
			IngestedArtistsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "songsearch_ingested_artists_total",
					Help: "Artists written by the catalog ingester",
				},
			),
			IngestedRecordingsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "songsearch_ingested_recordings_total",
					Help: "Recordings written by the catalog ingester",
				},
			),
		}
	})
	return instance
}

// RecordRecommendation records one engine call
func RecordRecommendation(outcome string, seconds float64, results int) {
	m := Get()
	m.RecommendationsTotal.WithLabelValues(outcome).Inc()
	m.RecommendationDuration.WithLabelValues(outcome).Observe(seconds)
	if outcome == "ok" {
		m.RecommendationResults.Observe(float64(results))
	}
}

// RecordCacheHit records a cache hit
func RecordCacheHit(cacheName string) {
	Get().CacheHitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(cacheName string) {
	Get().CacheMissesTotal.WithLabelValues(cacheName).Inc()
}
