// internal/eligibility/workflow.go
package eligibility

import (
	"context"

	"eligibility-engine/internal/common/metrics"
)

// RunStart performs the opening turn of a review: extract the program's
// conditions, settle whatever the already-known facts can settle, then
// either ask the first question or, when nothing is open, finish with a
// verdict straight away.
func (e *Engine) RunStart(ctx context.Context, st *State) {
	metrics.WorkflowStepsTotal.WithLabelValues("start").Inc()

	e.ExtractConditions(ctx, st)
	e.PrefillFromSlots(ctx, st)

	if !HasUnresolved(st) {
		e.Aggregate(ctx, st)
		return
	}
	e.NextQuestion(ctx, st)
}

// RunAnswer integrates one applicant answer and advances the interview,
// finishing with a verdict once nothing is left open.
func (e *Engine) RunAnswer(ctx context.Context, st *State, answer string) {
	metrics.WorkflowStepsTotal.WithLabelValues("answer").Inc()

	st.PendingAnswer = answer
	e.IntegrateAnswer(ctx, st)
	e.PrefillFromSlots(ctx, st)

	if HasUnresolved(st) {
		e.NextQuestion(ctx, st)
		return
	}
	e.Aggregate(ctx, st)
}

// RunResult makes sure the state carries a final verdict, aggregating on
// demand for sessions that finished their interview without one.
func (e *Engine) RunResult(ctx context.Context, st *State) {
	metrics.WorkflowStepsTotal.WithLabelValues("result").Inc()

	if st.FinalResult == "" {
		e.Aggregate(ctx, st)
	}
}
