package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "chat_turns_total",
			Help:      "Completed chat turns by outcome",
		},
		[]string{"outcome"},
	)

	llmCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "llm_calls_total",
			Help:      "Model API calls by phase and status",
		},
		[]string{"phase", "status"},
	)

	llmDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "concierge",
			Name:      "llm_call_duration_seconds",
			Help:      "Duration of model API calls in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"phase"},
	)

	toolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "tool_calls_total",
			Help:      "Tool executions by tool and status",
		},
		[]string{"tool", "status"},
	)

	toolCallsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "tool_calls_discarded_total",
			Help:      "Tool calls beyond the first that were dropped",
		},
	)

	memoryOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "memory_operations_total",
			Help:      "Conversation memory operations by kind and status",
		},
		[]string{"operation", "status"},
	)
)
