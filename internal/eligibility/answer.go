// internal/eligibility/answer.go
package eligibility

import "context"

// IntegrateAnswer writes the pending answer into the current condition's
// fact slot and re-judges it. Shared slots mean a later prefill can settle
// sibling conditions of the same category from this one answer. A cursor
// past the end makes this a no-op.
func (e *Engine) IntegrateAnswer(ctx context.Context, st *State) {
	if st.Cursor < 0 || st.Cursor >= len(st.Conditions) {
		return
	}

	cond := &st.Conditions[st.Cursor]
	answer := st.PendingAnswer

	if st.Slots == nil {
		st.Slots = make(map[string]string)
	}
	st.Slots[cond.SlotKey()] = answer

	status, reason := e.judgeCondition(ctx, *cond, answer)
	if status == StatusUnknown {
		note := reason
		if note == "" {
			note = "needs more information"
		}
		cond.Status = StatusUnknown
		cond.Reason = note + " | applicant answer: " + answer
	} else {
		cond.Status = status
		if reason == "" {
			reason = "based on applicant answer: " + answer
		}
		cond.Reason = reason
	}

	st.Cursor++
	st.PendingAnswer = ""
}

// HasUnresolved reports whether any condition from the cursor onward is
// still UNKNOWN.
func HasUnresolved(st *State) bool {
	for i := st.Cursor; i < len(st.Conditions); i++ {
		if st.Conditions[i].Status == StatusUnknown {
			return true
		}
	}
	return false
}
