package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the tool-call service.
type Metrics struct {
	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
	CacheHitsTotal   prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Tool calls by tool name and outcome
		ToolCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ordermcp_tool_calls_total",
			Help: "Total number of tool calls by tool name and status",
		}, []string{"tool", "status"}),

		// End-to-end tool call latency
		ToolCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ordermcp_tool_call_duration_seconds",
			Help:    "Time to validate, query, and format one tool call",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"tool"}),

		// Report cache hits
		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ordermcp_cache_hits_total",
			Help: "Total number of tool calls served from the report cache",
		}),
	}
}

// RecordCall increments the call counter for a tool with the given outcome.
func (m *Metrics) RecordCall(tool, status string) {
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
}

// RecordDuration records one tool call's end-to-end latency.
func (m *Metrics) RecordDuration(tool string, seconds float64) {
	m.ToolCallDuration.WithLabelValues(tool).Observe(seconds)
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}
