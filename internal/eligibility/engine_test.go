// internal/eligibility/engine_test.go
package eligibility

import (
	"context"
	"errors"

	"eligibility-engine/internal/common/logger"
	"eligibility-engine/internal/genai"
)

// ==========================
// Test Doubles
// ==========================

type generation struct {
	text string
	err  error
}

// fakeGenerator replays a scripted sequence of completions and records
// every prompt it was asked.
type fakeGenerator struct {
	queue   []generation
	calls   int
	prompts []string
	temps   []float64
}

func (f *fakeGenerator) Generate(ctx context.Context, messages []genai.Message, temperature float64) (string, error) {
	f.calls++
	f.temps = append(f.temps, temperature)
	if len(messages) > 0 {
		f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	}
	if len(f.queue) == 0 {
		return "", errors.New("unexpected generation call")
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.text, next.err
}

func (f *fakeGenerator) enqueue(text string) {
	f.queue = append(f.queue, generation{text: text})
}

func (f *fakeGenerator) enqueueErr(err error) {
	f.queue = append(f.queue, generation{err: err})
}

type fakePolicies struct {
	info *PolicyInfo
	err  error
}

func (f *fakePolicies) Lookup(ctx context.Context, policyID int64) (*PolicyInfo, error) {
	return f.info, f.err
}

func newTestEngine(gen Generator, policies PolicyLookup) *Engine {
	return NewEngine(&Config{
		ExtractTemperature:  0.0,
		JudgeTemperature:    0.0,
		QuestionTemperature: 0.3,
	}, gen, policies, logger.NewNoOpLogger())
}

func judgment(status, reason string) string {
	return `{"status": "` + status + `", "reason": "` + reason + `"}`
}
