package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Name:      "search_queries_total",
			Help:      "Total number of search queries by match mode",
		},
		[]string{"mode"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "murmur",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		},
		[]string{"mode"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "murmur",
			Name:      "search_duration_seconds",
			Help:      "Search latency including corpus load",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	SegmenterFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "murmur",
			Name:      "search_segmenter_fallbacks_total",
			Help:      "Times the word segmenter failed and the run splitter was used",
		},
		[]string{"segmenter"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SegmenterFallbacksTotal)
	searchMetricsRegistered = true
}

// SearchRecorder feeds search observations into the package metrics.
type SearchRecorder struct{}

// ObserveSearch records one completed search.
func (SearchRecorder) ObserveSearch(mode string, results int, duration time.Duration) {
	SearchQueriesTotal.WithLabelValues(mode).Inc()
	SearchResults.WithLabelValues(mode).Observe(float64(results))
	SearchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// SegmenterFallback counts a segmenter failure. It matches the tokenizer's
// fallback hook signature.
func (SearchRecorder) SegmenterFallback(segmenter string, _ error) {
	SegmenterFallbacksTotal.WithLabelValues(segmenter).Inc()
}
