// internal/eligibility/question.go
package eligibility

import (
	"context"
	"strings"

	"eligibility-engine/internal/genai"
	"eligibility-engine/internal/prompts"
)

const questionFallbackApology = "Sorry, something went wrong while preparing the next question. Please try again."

// NextQuestion finds the first unresolved condition from the cursor
// onward and asks the model to phrase a question for it. When nothing is
// unresolved the question is cleared and the cursor parks past the end,
// which marks the interview as finished.
func (e *Engine) NextQuestion(ctx context.Context, st *State) {
	idx := -1
	for i := st.Cursor; i < len(st.Conditions); i++ {
		if st.Conditions[i].Status == StatusUnknown {
			idx = i
			break
		}
	}
	if idx < 0 {
		st.CurrentQuestion = ""
		st.Cursor = len(st.Conditions)
		return
	}

	cond := st.Conditions[idx]

	policyName := ""
	if info := e.lookupPolicy(ctx, st.PolicyID); info != nil {
		policyName = info.ProgramName
	}

	prompt := e.renderer.Render(prompts.TemplateQuestion, map[string]interface{}{
		"policy_name":           policyName,
		"condition_name":        cond.Name,
		"condition_description": cond.Description,
		"condition_type":        cond.Type,
	}, "Please tell me about: "+cond.Name)

	completion, err := e.gen.Generate(ctx, []genai.Message{
		{Role: "system", Content: "You are a friendly eligibility advisor."},
		{Role: "user", Content: prompt},
	}, e.config.QuestionTemperature)
	if err != nil {
		e.logger.Warn("question generation failed", map[string]interface{}{
			"session_id": st.SessionID,
			"condition":  cond.Name,
			"error":      err.Error(),
		})
		// Cursor stays put so the same condition is retried next turn.
		st.CurrentQuestion = questionFallbackApology + " (" + err.Error() + ")"
		return
	}

	st.CurrentQuestion = strings.TrimSpace(completion)
	st.Cursor = idx
}
