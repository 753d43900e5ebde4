package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "search_requests_total",
			Help:      "Total number of catalog searches",
		},
		[]string{"mode"}, // "search" / "browse"
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shopsearch",
			Name:      "search_results",
			Help:      "Number of items matched per search before the limit is applied",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	SearchEmptyResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "search_empty_results_total",
			Help:      "Searches that matched no items",
		},
	)

	IntentConstraintsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "intent_constraints_total",
			Help:      "Constraints extracted from query text",
		},
		[]string{"constraint"},
	)

	EngineBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shopsearch",
			Name:      "engine_build_duration_seconds",
			Help:      "Similarity engine construction time in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	EngineVocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shopsearch",
			Name:      "engine_vocabulary_size",
			Help:      "Distinct weighted terms in the current similarity engine",
		},
	)

	CatalogItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shopsearch",
			Name:      "catalog_items",
			Help:      "Items in the current catalog snapshot",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchEmptyResultsTotal)
	prometheus.MustRegister(IntentConstraintsTotal)
	prometheus.MustRegister(EngineBuildDuration)
	prometheus.MustRegister(EngineVocabularySize)
	prometheus.MustRegister(CatalogItems)
	searchMetricsRegistered = true
}
