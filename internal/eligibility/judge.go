// internal/eligibility/judge.go
package eligibility

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "eligibility-engine/internal/common/errors"
	"eligibility-engine/internal/genai"
	"eligibility-engine/internal/prompts"
)

// judgeCondition evaluates one condition against the applicant's fact.
// An empty fact short-circuits to UNKNOWN without a generation call; every
// failure mode also degrades to UNKNOWN so a flaky model can never flip a
// condition to PASS or FAIL.
func (e *Engine) judgeCondition(ctx context.Context, cond Condition, answer string) (Status, string) {
	if strings.TrimSpace(answer) == "" {
		return StatusUnknown, ""
	}

	prompt := e.renderer.Render(prompts.TemplateJudge, map[string]interface{}{
		"condition_name":        cond.Name,
		"condition_description": cond.Description,
		"condition_type":        cond.Type,
		"condition_value":       cond.Value,
		"user_answer":           answer,
	}, "Judge the condition \""+cond.Name+"\" against the answer \""+answer+"\". Respond with JSON {\"status\": \"PASS\"|\"FAIL\"|\"UNKNOWN\", \"reason\": \"...\"}.")

	completion, err := e.gen.Generate(ctx, []genai.Message{
		{Role: "system", Content: "You are a policy analyst judging eligibility conditions."},
		{Role: "user", Content: prompt},
	}, e.config.JudgeTemperature)
	if err != nil {
		e.logger.Warn("condition judgment failed", map[string]interface{}{
			"condition": cond.Name,
			"error":     err.Error(),
		})
		return StatusUnknown, "judgment unavailable: " + err.Error()
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(extractJSONPayload(completion)), &decoded); err != nil {
		return e.unparsableJudgment(cond, err)
	}
	if err := validateJudgment(decoded); err != nil {
		return e.unparsableJudgment(cond, err)
	}

	return normalizeStatus(stringify(decoded["status"])), stringify(decoded["reason"])
}

func (e *Engine) unparsableJudgment(cond Condition, err error) (Status, string) {
	serr := apperrors.NewJudgmentParseFailedError(err)
	e.logger.Warn("judgment payload unparsable", map[string]interface{}{
		"condition": cond.Name,
		"code":      string(serr.Code),
		"error":     serr.Details,
	})
	return StatusUnknown, "judgment response unparsable"
}

// PrefillFromSlots judges every still-open condition from the cursor
// onward against the facts already collected. Conditions that were
// settled or annotated earlier keep their status, so repeated prefills
// are idempotent and never trigger extra generation calls for them.
func (e *Engine) PrefillFromSlots(ctx context.Context, st *State) int {
	settled := 0
	start := st.Cursor
	if start < 0 {
		start = 0
	}
	for i := start; i < len(st.Conditions); i++ {
		cond := &st.Conditions[i]
		if cond.Status == StatusPass || cond.Status == StatusFail {
			continue
		}

		answer := st.Slots[cond.SlotKey()]
		if strings.TrimSpace(answer) == "" {
			cond.Status = StatusUnknown
			continue
		}

		status, reason := e.judgeCondition(ctx, *cond, answer)
		cond.Status = status
		cond.Reason = reason
		if status != StatusUnknown {
			settled++
		}
	}

	if settled > 0 {
		e.logger.Info("conditions prefilled from known facts", map[string]interface{}{
			"session_id": st.SessionID,
			"settled":    settled,
		})
	}
	return settled
}
