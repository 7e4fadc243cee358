// internal/eligibility/judge_test.go
package eligibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJudgeCondition_EmptyAnswerShortCircuits(t *testing.T) {
	gen := &fakeGenerator{}
	engine := newTestEngine(gen, nil)

	status, reason := engine.judgeCondition(context.Background(), Condition{Name: "Age"}, "   ")

	assert.Equal(t, StatusUnknown, status)
	assert.Empty(t, reason)
	assert.Equal(t, 0, gen.calls)
}

func TestJudgeCondition_StatusCoercion(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected Status
	}{
		{"pass", judgment("PASS", "meets the threshold"), StatusPass},
		{"fail", judgment("FAIL", "over the limit"), StatusFail},
		{"unknown", judgment("UNKNOWN", "not enough detail"), StatusUnknown},
		{"lowercase pass", judgment("pass", "ok"), StatusPass},
		{"off the enum", `{"status": "MAYBE", "reason": "?"}`, StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			gen.enqueue(tt.response)
			engine := newTestEngine(gen, nil)

			status, _ := engine.judgeCondition(context.Background(), Condition{Name: "Age"}, "I am 30")

			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestJudgeCondition_OffEnumStatusKeepsReason(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(`{"status": "MAYBE", "reason": "income is close to the threshold"}`)
	engine := newTestEngine(gen, nil)

	status, reason := engine.judgeCondition(context.Background(), Condition{Name: "Income"}, "about 50 million")

	assert.Equal(t, StatusUnknown, status)
	assert.Equal(t, "income is close to the threshold", reason)
}

func TestJudgeCondition_GenerationErrorDegradesToUnknown(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueueErr(errors.New("GENERATION_TIMEOUT"))
	engine := newTestEngine(gen, nil)

	status, reason := engine.judgeCondition(context.Background(), Condition{Name: "Age"}, "I am 30")

	assert.Equal(t, StatusUnknown, status)
	assert.Contains(t, reason, "judgment unavailable")
}

func TestJudgeCondition_UnparsableResponse(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue("definitely a pass, trust me")
	engine := newTestEngine(gen, nil)

	status, reason := engine.judgeCondition(context.Background(), Condition{Name: "Age"}, "I am 30")

	assert.Equal(t, StatusUnknown, status)
	assert.Equal(t, "judgment response unparsable", reason)
}

func TestPrefillFromSlots(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(judgment("PASS", "within the age limit"))
	engine := newTestEngine(gen, nil)

	st := NewState("s1", 1, "text")
	st.Conditions = []Condition{
		{Name: "Under 39", Type: "Age"},
		{Name: "In the region", Type: "Location"},
	}
	st.Slots["age"] = "I am 30 years old"

	settled := engine.PrefillFromSlots(context.Background(), st)

	assert.Equal(t, 1, settled)
	assert.Equal(t, StatusPass, st.Conditions[0].Status)
	assert.Equal(t, StatusUnknown, st.Conditions[1].Status)
	assert.Equal(t, 1, gen.calls)
}

func TestPrefillFromSlots_SharedSlotSettlesSiblings(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(judgment("PASS", "over 18"))
	gen.enqueue(judgment("PASS", "under 39"))
	engine := newTestEngine(gen, nil)

	st := NewState("s1", 1, "text")
	st.Conditions = []Condition{
		{Name: "Adult", Type: "Age"},
		{Name: "Youth program cap", Type: "Age"},
	}
	st.Slots["age"] = "I am 30"

	settled := engine.PrefillFromSlots(context.Background(), st)

	assert.Equal(t, 2, settled)
	assert.Equal(t, StatusPass, st.Conditions[0].Status)
	assert.Equal(t, StatusPass, st.Conditions[1].Status)
}

func TestPrefillFromSlots_SkipsSettledConditions(t *testing.T) {
	gen := &fakeGenerator{}
	engine := newTestEngine(gen, nil)

	st := NewState("s1", 1, "text")
	st.Conditions = []Condition{
		{Name: "Under 39", Type: "Age", Status: StatusPass, Reason: "already settled"},
		{Name: "Registered", Type: "business_status", Status: StatusFail, Reason: "not registered"},
	}
	st.Slots["age"] = "I am 30"
	st.Slots["business_status"] = "registered last year"

	settled := engine.PrefillFromSlots(context.Background(), st)

	assert.Equal(t, 0, settled)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, "already settled", st.Conditions[0].Reason)
}

func TestPrefillFromSlots_Idempotent(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(judgment("PASS", "ok"))
	engine := newTestEngine(gen, nil)

	st := NewState("s1", 1, "text")
	st.Conditions = []Condition{{Name: "Under 39", Type: "Age"}}
	st.Slots["age"] = "I am 30"

	engine.PrefillFromSlots(context.Background(), st)
	engine.PrefillFromSlots(context.Background(), st)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, StatusPass, st.Conditions[0].Status)
}
