// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkflowStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_workflow_steps_total",
			Help: "Total number of workflow steps executed",
		},
		[]string{"step"},
	)

	GenerationCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_generation_calls_total",
			Help: "Total number of text generation calls by outcome",
		},
		[]string{"outcome"},
	)

	GenerationCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "eligibility_generation_call_duration_seconds",
			Help: "Duration of text generation calls in seconds",
		},
	)

	VerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_verdicts_total",
			Help: "Total number of final verdicts by result",
		},
		[]string{"result"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eligibility_sessions_active",
			Help: "Number of sessions currently held in the session store",
		},
	)
)
