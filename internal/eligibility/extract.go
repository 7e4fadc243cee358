// internal/eligibility/extract.go
package eligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "eligibility-engine/internal/common/errors"
	"eligibility-engine/internal/genai"
	"eligibility-engine/internal/prompts"
)

const extractFallbackPrompt = `Extract every eligibility condition from the following program text as a JSON object {"conditions": [...], "extra_requirements": null}. Respond with JSON only.

`

// ExtractConditions asks the model to turn the program's eligibility text
// into structured conditions and writes them onto the state. Failures
// never abort the review: the state ends up with an empty condition list
// and an error note, and aggregation later turns that into a verdict.
func (e *Engine) ExtractConditions(ctx context.Context, st *State) {
	target := strings.TrimSpace(st.ApplyTarget)
	if target == "" {
		st.Conditions = []Condition{}
		st.Error = "no eligibility text provided"
		return
	}

	prompt := e.renderer.Render(prompts.TemplateExtract, map[string]interface{}{
		"apply_target": target,
	}, extractFallbackPrompt+target)

	completion, err := e.gen.Generate(ctx, []genai.Message{
		{Role: "system", Content: "You are a policy analyst extracting eligibility rules."},
		{Role: "user", Content: prompt},
	}, e.config.ExtractTemperature)
	if err != nil {
		serr := apperrors.NewGenerationFailedError(err)
		if errors.Is(err, genai.ErrGenerationTimeout) {
			serr = apperrors.NewGenerationTimeoutError()
		}
		e.logger.Error("condition extraction failed", map[string]interface{}{
			"session_id": st.SessionID,
			"code":       string(serr.Code),
			"error":      serr.Details,
		})
		st.Conditions = []Condition{}
		st.Error = err.Error()
		return
	}

	conditions, extra, err := parseExtraction(completion)
	if err != nil {
		serr := apperrors.NewConditionParseFailedError(err)
		e.logger.Warn("extraction payload unparsable", map[string]interface{}{
			"session_id": st.SessionID,
			"code":       string(serr.Code),
			"error":      serr.Details,
		})
		st.Conditions = []Condition{}
		st.ExtraRequirements = "Manual review required: the extracted rules could not be parsed."
		st.Error = fmt.Sprintf("condition parse failed: %v", err)
		return
	}

	st.Conditions = conditions
	st.ExtraRequirements = extra
	st.Cursor = 0
	st.Error = ""

	e.logger.Info("conditions extracted", map[string]interface{}{
		"session_id": st.SessionID,
		"count":      len(conditions),
	})
}

// parseExtraction decodes the completion into conditions plus the free-form
// extra requirements note. The payload may be an object with a
// "conditions" list or a bare list of entries.
func parseExtraction(completion string) ([]Condition, string, error) {
	payload := extractJSONPayload(completion)

	var decoded interface{}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, "", err
	}

	var entries []interface{}
	var extra string

	switch v := decoded.(type) {
	case []interface{}:
		entries = v
	case map[string]interface{}:
		if raw, ok := v["conditions"].([]interface{}); ok {
			entries = raw
		}
		if rawExtra, ok := v["extra_requirements"]; ok && rawExtra != nil {
			extra = stringify(rawExtra)
		}
	default:
		return nil, "", fmt.Errorf("unexpected payload type %T", decoded)
	}

	conditions := make([]Condition, 0, len(entries))
	for _, entry := range entries {
		if err := validateConditionEntry(entry); err != nil {
			continue
		}
		record, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		conditions = append(conditions, decodeCondition(record))
	}

	return conditions, extra, nil
}

func decodeCondition(record map[string]interface{}) Condition {
	return Condition{
		Name:        stringify(record["name"]),
		Description: stringify(record["description"]),
		Type:        stringify(record["type"]),
		Value:       stringify(record["value"]),
		Logic:       stringify(record["logic"]),
		Status:      normalizeStatus(stringify(record["status"])),
		Reason:      stringify(record["reason"]),
	}
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; keep integers clean.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
