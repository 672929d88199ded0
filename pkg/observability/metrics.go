package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the semantic map service.
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec

	// Ingest metrics
	ChunksIngested   prometheus.Counter
	IngestBatchTotal prometheus.Counter
	IngestDuration   prometheus.Histogram

	// Embedding metrics
	EmbedTokensTotal prometheus.Counter
	EmbedDuration    prometheus.Histogram

	// Reduction metrics
	ReduceRunsTotal  *prometheus.CounterVec
	ReduceDuration   *prometheus.HistogramVec
	ReduceInputSize  prometheus.Histogram
	ReduceFallbacks  prometheus.Counter

	// Search metrics
	SearchLatency    prometheus.Histogram
	SearchResultSize prometheus.Histogram

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheSize   prometheus.Gauge

	// Store metrics
	StoreChunksTotal prometheus.Gauge
	StoreWriteErrors prometheus.Counter

	// System metrics
	GoroutinesCount prometheus.Gauge
	MemoryUsage     prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "semanticmap_requests_total",
				Help: "Total number of requests by method and status",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "semanticmap_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
		RequestErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "semanticmap_request_errors_total",
				Help: "Total number of request errors by method and error type",
			},
			[]string{"method", "error_type"},
		),

		ChunksIngested: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "semanticmap_chunks_ingested_total",
				Help: "Total number of text chunks ingested",
			},
		),
		IngestBatchTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "semanticmap_ingest_batch_total",
				Help: "Total number of ingest batches processed",
			},
		),
		IngestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "semanticmap_ingest_duration_seconds",
				Help:    "Ingest batch duration in seconds",
				Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30},
			},
		),

		EmbedTokensTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "semanticmap_embed_tokens_total",
				Help: "Total number of tokens hashed into embeddings",
			},
		),
		EmbedDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "semanticmap_embed_duration_seconds",
				Help:    "Embedding duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),

		ReduceRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "semanticmap_reduce_runs_total",
				Help: "Total number of dimensionality-reduction runs by algorithm",
			},
			[]string{"algorithm"},
		),
		ReduceDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "semanticmap_reduce_duration_seconds",
				Help:    "Dimensionality-reduction duration in seconds by algorithm",
				Buckets: []float64{.01, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"algorithm"},
		),
		ReduceInputSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "semanticmap_reduce_input_size",
				Help:    "Number of rows fed into a reduction run",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
			},
		),
		ReduceFallbacks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "semanticmap_reduce_pca_fallback_total",
				Help: "Total number of times the PCA fallback was used instead of UMAP",
			},
		),

		SearchLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "semanticmap_search_latency_seconds",
				Help:    "Top-k cosine search latency in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		SearchResultSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "semanticmap_search_result_size",
				Help:    "Number of results returned by search",
				Buckets: []float64{1, 5, 10, 20, 50, 100},
			},
		),

		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "semanticmap_cache_hits_total",
				Help: "Total number of query-cache hits",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "semanticmap_cache_misses_total",
				Help: "Total number of query-cache misses",
			},
		),
		CacheSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "semanticmap_cache_size",
				Help: "Current number of entries in the query cache",
			},
		),

		StoreChunksTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "semanticmap_store_chunks_total",
				Help: "Current number of chunks persisted in the store",
			},
		),
		StoreWriteErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "semanticmap_store_write_errors_total",
				Help: "Total number of failed store writes",
			},
		),

		GoroutinesCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "semanticmap_goroutines",
				Help: "Current number of goroutines",
			},
		),
		MemoryUsage: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "semanticmap_memory_bytes",
				Help: "Memory usage in bytes",
			},
		),
	}
}

// RecordRequest records a request with duration and status.
func (m *Metrics) RecordRequest(method, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordError records an error.
func (m *Metrics) RecordError(method, errorType string) {
	m.RequestErrors.WithLabelValues(method, errorType).Inc()
}

// RecordIngest records an ingest batch of count chunks taking duration.
func (m *Metrics) RecordIngest(duration time.Duration, count int) {
	m.IngestBatchTotal.Inc()
	m.IngestDuration.Observe(duration.Seconds())
	m.ChunksIngested.Add(float64(count))
}

// RecordEmbed records an embedding operation over tokenCount tokens.
func (m *Metrics) RecordEmbed(duration time.Duration, tokenCount int) {
	m.EmbedDuration.Observe(duration.Seconds())
	m.EmbedTokensTotal.Add(float64(tokenCount))
}

// RecordReduce records a dimensionality-reduction run.
func (m *Metrics) RecordReduce(algorithm string, duration time.Duration, inputRows int) {
	m.ReduceRunsTotal.WithLabelValues(algorithm).Inc()
	m.ReduceDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	m.ReduceInputSize.Observe(float64(inputRows))
}

// RecordReduceFallback records that PCA was used in place of UMAP.
func (m *Metrics) RecordReduceFallback() {
	m.ReduceFallbacks.Inc()
}

// RecordSearch records a search operation.
func (m *Metrics) RecordSearch(duration time.Duration, resultSize int) {
	m.SearchLatency.Observe(duration.Seconds())
	m.SearchResultSize.Observe(float64(resultSize))
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMisses.Inc()
}

// UpdateCacheSize updates cache size.
func (m *Metrics) UpdateCacheSize(size int) {
	m.CacheSize.Set(float64(size))
}

// UpdateStoreChunkCount updates the persisted-chunk gauge.
func (m *Metrics) UpdateStoreChunkCount(count int) {
	m.StoreChunksTotal.Set(float64(count))
}

// RecordStoreWriteError records a failed store write.
func (m *Metrics) RecordStoreWriteError() {
	m.StoreWriteErrors.Inc()
}

// UpdateGoroutineCount updates goroutine count.
func (m *Metrics) UpdateGoroutineCount(count int) {
	m.GoroutinesCount.Set(float64(count))
}

// UpdateMemoryUsage updates memory usage.
func (m *Metrics) UpdateMemoryUsage(bytes uint64) {
	m.MemoryUsage.Set(float64(bytes))
}
