// internal/eligibility/condition_test.go
package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondition_SlotKey(t *testing.T) {
	tests := []struct {
		name     string
		cond     Condition
		expected string
	}{
		{
			name:     "mapped category",
			cond:     Condition{Name: "Founder age limit", Type: "Age"},
			expected: "age",
		},
		{
			name:     "mapped multi-word category",
			cond:     Condition{Name: "Years trading", Type: "Business Age"},
			expected: "business_age",
		},
		{
			name:     "legacy lowercase category",
			cond:     Condition{Name: "Operating status", Type: "business_status"},
			expected: "business_status",
		},
		{
			name:     "unmapped category falls back to the raw category",
			cond:     Condition{Name: "Special permit", Type: "Permits"},
			expected: "Permits",
		},
		{
			name:     "no category falls back to name",
			cond:     Condition{Name: "Special permit", Type: ""},
			expected: "Special permit",
		},
		{
			name:     "no category and blank name",
			cond:     Condition{Name: "   ", Type: ""},
			expected: "unknown_slot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cond.SlotKey())
		})
	}
}

func TestCondition_SlotKey_SharedAcrossCategory(t *testing.T) {
	a := Condition{Name: "Minimum age", Type: "Age"}
	b := Condition{Name: "Maximum age", Type: "Age"}

	assert.Equal(t, a.SlotKey(), b.SlotKey())
}

func TestCondition_IsAndCondition(t *testing.T) {
	assert.True(t, Condition{Logic: ""}.IsAndCondition())
	assert.True(t, Condition{Logic: "AND"}.IsAndCondition())
	assert.False(t, Condition{Logic: "OR"}.IsAndCondition())
	assert.False(t, Condition{Logic: " or "}.IsAndCondition())
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusPass, normalizeStatus("PASS"))
	assert.Equal(t, StatusPass, normalizeStatus(" pass "))
	assert.Equal(t, StatusFail, normalizeStatus("Fail"))
	assert.Equal(t, StatusUnknown, normalizeStatus("UNKNOWN"))
	assert.Equal(t, StatusUnknown, normalizeStatus("maybe"))
	assert.Equal(t, StatusUnknown, normalizeStatus(""))
}
