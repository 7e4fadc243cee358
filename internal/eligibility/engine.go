// internal/eligibility/engine.go
package eligibility

import (
	"context"

	"eligibility-engine/internal/common/logger"
	"eligibility-engine/internal/genai"
	"eligibility-engine/internal/prompts"
)

// Generator produces completion text for a prompt exchange.
type Generator interface {
	Generate(ctx context.Context, messages []genai.Message, temperature float64) (string, error)
}

// PolicyInfo is the subset of program metadata the engine reads when
// phrasing questions and enriching verdicts.
type PolicyInfo struct {
	ID            int64
	ProgramName   string
	ContactAgency string
	ContactNumber string
}

// PolicyLookup resolves program metadata by id. A nil result with a nil
// error means the program is unknown; the engine treats that as
// non-fatal and simply omits the metadata.
type PolicyLookup interface {
	Lookup(ctx context.Context, policyID int64) (*PolicyInfo, error)
}

// Config tunes the engine's generation calls.
type Config struct {
	ExtractTemperature  float64
	JudgeTemperature    float64
	QuestionTemperature float64
}

// Engine runs the eligibility review workflow: it extracts conditions
// from program text, judges them against applicant facts, asks for
// missing facts, and aggregates the final verdict.
type Engine struct {
	config   *Config
	gen      Generator
	renderer *prompts.Renderer
	policies PolicyLookup
	logger   logger.Logger
}

func NewEngine(config *Config, gen Generator, policies PolicyLookup, log logger.Logger) *Engine {
	return &Engine{
		config:   config,
		gen:      gen,
		renderer: prompts.NewRenderer(),
		policies: policies,
		logger: log.With(map[string]interface{}{
			"component": "eligibility",
		}),
	}
}

func (e *Engine) lookupPolicy(ctx context.Context, policyID int64) *PolicyInfo {
	if e.policies == nil {
		return nil
	}
	info, err := e.policies.Lookup(ctx, policyID)
	if err != nil {
		e.logger.Warn("policy lookup failed", map[string]interface{}{
			"policy_id": policyID,
			"error":     err.Error(),
		})
		return nil
	}
	return info
}
