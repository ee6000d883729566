// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AgentQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_queries_total",
			Help: "Total number of agent queries processed, by resolved intent",
		},
		[]string{"intent"},
	)

	AgentStageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_stage_failures_total",
			Help: "Total number of pipeline stage failures",
		},
		[]string{"stage", "error_code"},
	)

	AgentQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "agent_query_duration_seconds",
			Help: "End to end query processing duration in seconds",
		},
		[]string{"intent"},
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "agent_llm_call_duration_seconds",
			Help: "Duration of model API calls in seconds",
		},
		[]string{"purpose"},
	)

	AccountCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_account_cache_requests_total",
			Help: "Account summary cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
