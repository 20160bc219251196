// Package metrics holds the prometheus instruments for query and HTTP
// traffic.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// QueryTotal counts engine queries by model and outcome.
	QueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sphindex",
			Name:      "queries_total",
			Help:      "Total number of engine queries",
		},
		[]string{"model", "outcome"},
	)

	// QueryDuration observes engine-reported query time in seconds.
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sphindex",
			Name:      "query_duration_seconds",
			Help:      "Engine-reported query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"model"},
	)

	// CacheTotal counts result-cache lookups by result (hit/miss).
	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sphindex",
			Name:      "result_cache_total",
			Help:      "Result cache lookups by outcome",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(QueryTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(CacheTotal)
}
