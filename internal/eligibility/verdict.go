// internal/eligibility/verdict.go
package eligibility

import (
	"context"
	"fmt"
	"strings"

	"eligibility-engine/internal/common/metrics"
)

// Aggregate folds the per-condition judgments into the final verdict and
// writes it onto the state. Mandatory (AND) conditions must all pass;
// alternative (OR) conditions need one pass between them. Unresolved
// mandatory conditions keep the verdict at CANNOT_DETERMINE rather than
// guessing.
func (e *Engine) Aggregate(ctx context.Context, st *State) {
	result, reason := e.computeVerdict(st)

	if result == ResultCannotDetermine {
		if info := e.lookupPolicy(ctx, st.PolicyID); info != nil {
			contact := strings.TrimSpace(strings.TrimSpace(info.ContactAgency) + " " + strings.TrimSpace(info.ContactNumber))
			if contact != "" {
				reason = fmt.Sprintf("%s (contact: %s)", reason, contact)
			}
		}
	}

	st.FinalResult = result
	st.Reason = reason
	st.Completed = true

	metrics.VerdictsTotal.WithLabelValues(string(result)).Inc()
	e.logger.Info("verdict aggregated", map[string]interface{}{
		"session_id": st.SessionID,
		"result":     string(result),
	})
}

func (e *Engine) computeVerdict(st *State) (Result, string) {
	if len(st.Conditions) == 0 {
		reason := "no conditions to check"
		if st.Error != "" {
			reason = reason + ": " + st.Error
		}
		return ResultNotEligible, reason
	}

	var (
		orTotal      int
		orPass       int
		andFailCount int
		andUnknown   int
	)
	for _, cond := range st.Conditions {
		if cond.IsAndCondition() {
			switch cond.Status {
			case StatusFail:
				andFailCount++
			case StatusUnknown:
				andUnknown++
			}
			continue
		}
		orTotal++
		if cond.Status == StatusPass {
			orPass++
		}
	}

	// The OR group passes on the first passing alternative. Without one it
	// fails the whole verdict, even when some alternatives are still open.
	if orTotal > 0 && orPass == 0 {
		return ResultNotEligible, "none of the alternative conditions were met"
	}

	if andFailCount > 0 {
		return ResultNotEligible, fmt.Sprintf("%d mandatory condition(s) failed", andFailCount)
	}

	if andUnknown > 0 {
		return ResultCannotDetermine, fmt.Sprintf("needs more information on %d condition(s)", andUnknown)
	}

	if extra := strings.TrimSpace(st.ExtraRequirements); extra != "" {
		switch strings.ToLower(extra) {
		case "null", "none":
		default:
			return ResultCannotDetermine, "additional requirements need manual review: " + extra
		}
	}

	return ResultEligible, "all eligibility conditions were met"
}
