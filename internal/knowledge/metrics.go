package knowledge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	retrievalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "kb_retrievals_total",
			Help:      "Total knowledge base retrieval attempts",
		},
		[]string{"phase", "status"},
	)

	retrievalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "concierge",
			Name:      "kb_retrieval_duration_seconds",
			Help:      "Duration of end-to-end knowledge retrieval in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	retrievalMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "concierge",
			Name:      "kb_retrieval_matches",
			Help:      "Number of matches returned per retrieval",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
		},
	)
)
