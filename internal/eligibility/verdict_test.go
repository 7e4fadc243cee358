// internal/eligibility/verdict_test.go
package eligibility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		conditions []Condition
		extra      string
		expected   Result
		reasonPart string
	}{
		{
			name:       "no conditions",
			conditions: nil,
			expected:   ResultNotEligible,
			reasonPart: "no conditions to check",
		},
		{
			name: "all alternatives failed",
			conditions: []Condition{
				{Name: "Region A", Logic: "OR", Status: StatusFail},
				{Name: "Region B", Logic: "OR", Status: StatusFail},
				{Name: "Registered", Status: StatusPass},
			},
			expected:   ResultNotEligible,
			reasonPart: "alternative conditions",
		},
		{
			name: "mandatory failure beats open questions",
			conditions: []Condition{
				{Name: "Under 39", Status: StatusFail},
				{Name: "Registered", Status: StatusUnknown},
			},
			expected:   ResultNotEligible,
			reasonPart: "1 mandatory condition(s) failed",
		},
		{
			name: "open mandatory condition",
			conditions: []Condition{
				{Name: "Under 39", Status: StatusPass},
				{Name: "Registered", Status: StatusUnknown},
			},
			expected:   ResultCannotDetermine,
			reasonPart: "needs more information on 1 condition(s)",
		},
		{
			name: "open alternative without a pass still fails the group",
			conditions: []Condition{
				{Name: "Region A", Logic: "OR", Status: StatusFail},
				{Name: "Region B", Logic: "OR", Status: StatusUnknown},
				{Name: "Registered", Status: StatusPass},
			},
			expected:   ResultNotEligible,
			reasonPart: "alternative conditions",
		},
		{
			name: "passed alternative closes the group",
			conditions: []Condition{
				{Name: "Region A", Logic: "OR", Status: StatusPass},
				{Name: "Region B", Logic: "OR", Status: StatusUnknown},
			},
			expected:   ResultEligible,
			reasonPart: "all eligibility conditions were met",
		},
		{
			name: "extra requirements force manual review",
			conditions: []Condition{
				{Name: "Under 39", Status: StatusPass},
			},
			extra:      "Must attend an orientation session",
			expected:   ResultCannotDetermine,
			reasonPart: "Must attend an orientation session",
		},
		{
			name: "null extra requirements are ignored",
			conditions: []Condition{
				{Name: "Under 39", Status: StatusPass},
			},
			extra:    "null",
			expected: ResultEligible,
		},
		{
			name: "none extra requirements are ignored",
			conditions: []Condition{
				{Name: "Under 39", Status: StatusPass},
			},
			extra:    "None",
			expected: ResultEligible,
		},
		{
			name: "everything passed",
			conditions: []Condition{
				{Name: "Under 39", Status: StatusPass},
				{Name: "Registered", Status: StatusPass},
			},
			expected:   ResultEligible,
			reasonPart: "all eligibility conditions were met",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(&fakeGenerator{}, nil)
			st := NewState("s1", 1, "text")
			st.Conditions = tt.conditions
			st.ExtraRequirements = tt.extra

			engine.Aggregate(context.Background(), st)

			assert.Equal(t, tt.expected, st.FinalResult)
			assert.True(t, st.Completed)
			if tt.reasonPart != "" {
				assert.Contains(t, st.Reason, tt.reasonPart)
			}
		})
	}
}

func TestAggregate_NoConditionsCarriesExtractionError(t *testing.T) {
	engine := newTestEngine(&fakeGenerator{}, nil)
	st := NewState("s1", 1, "text")
	st.Error = "condition parse failed: unexpected token"

	engine.Aggregate(context.Background(), st)

	assert.Equal(t, ResultNotEligible, st.FinalResult)
	assert.Contains(t, st.Reason, "condition parse failed")
}

func TestAggregate_ContactEnrichment(t *testing.T) {
	policies := &fakePolicies{info: &PolicyInfo{
		ID:            7,
		ProgramName:   "Youth Startup Fund",
		ContactAgency: "Small Business Agency",
		ContactNumber: "1357",
	}}
	engine := newTestEngine(&fakeGenerator{}, policies)

	st := NewState("s1", 7, "text")
	st.Conditions = []Condition{{Name: "Under 39", Status: StatusUnknown}}

	engine.Aggregate(context.Background(), st)

	assert.Equal(t, ResultCannotDetermine, st.FinalResult)
	assert.Contains(t, st.Reason, "(contact: Small Business Agency 1357)")
}

func TestAggregate_NoContactEnrichmentWhenEligible(t *testing.T) {
	policies := &fakePolicies{info: &PolicyInfo{
		ContactAgency: "Small Business Agency",
	}}
	engine := newTestEngine(&fakeGenerator{}, policies)

	st := NewState("s1", 7, "text")
	st.Conditions = []Condition{{Name: "Under 39", Status: StatusPass}}

	engine.Aggregate(context.Background(), st)

	assert.Equal(t, ResultEligible, st.FinalResult)
	assert.NotContains(t, st.Reason, "contact")
}
