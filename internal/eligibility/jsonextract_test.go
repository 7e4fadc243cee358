// internal/eligibility/jsonextract_test.go
package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONPayload(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "Here you go:\n```json\n{\"a\": 1}\n```\nThanks!",
			expected: `{"a": 1}`,
		},
		{
			name:     "generic fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "generic fence with language tag",
			input:    "```javascript\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "object embedded in prose",
			input:    "The result is {\"a\": 1} as requested.",
			expected: `{"a": 1}`,
		},
		{
			name:     "array embedded in prose",
			input:    "Conditions: [{\"name\": \"x\"}] done.",
			expected: `[{"name": "x"}]`,
		},
		{
			name:     "bare json passthrough",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "no json at all",
			input:    "sorry, I cannot help with that",
			expected: "sorry, I cannot help with that",
		},
		{
			name:     "unterminated json fence",
			input:    "```json\n{\"a\": 1}",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONPayload(tt.input))
		})
	}
}
