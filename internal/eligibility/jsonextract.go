// internal/eligibility/jsonextract.go
package eligibility

import (
	"regexp"
	"strings"
)

var (
	bracketPayload = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)
	leadingTag     = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// extractJSONPayload pulls a JSON document out of free-form completion
// text. Models wrap payloads in markdown fences, prepend prose, or return
// bare JSON; all three shapes are handled, in that order of preference.
func extractJSONPayload(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		rest = strings.TrimSpace(rest)
		// A fence may carry a language tag on its first line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			first := strings.TrimSpace(rest[:nl])
			if leadingTag.MatchString(first) {
				rest = strings.TrimSpace(rest[nl+1:])
			}
		}
		return rest
	}

	if m := bracketPayload.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}

	return text
}
