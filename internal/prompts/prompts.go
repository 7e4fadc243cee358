// internal/prompts/prompts.go
package prompts

import (
	"bytes"
	"text/template"
)

// Template names known to the renderer.
const (
	TemplateExtract  = "condition_extract"
	TemplateJudge    = "condition_judge"
	TemplateQuestion = "condition_question"
)

const extractTemplate = `You are analyzing the eligibility rules of a government support program.

Eligibility text:
{{.apply_target}}

Extract every eligibility condition into a JSON object of the form:
{
  "conditions": [
    {
      "name": "short condition name",
      "description": "full condition description",
      "type": "one of: Age, Business Age, Location, Business Type, Experience, Financial Status, Tech & Innovation, Application Type, Individual Traits, Business Objective, Collaboration, Legal & Social, Employment Status, Compliance & Tax, business_status",
      "value": "threshold or expected value when the text states one, else omit",
      "logic": "OR only when the condition is one of several alternatives, else omit"
    }
  ],
  "extra_requirements": "any requirement that cannot be reduced to a structured condition, else null"
}

Respond with JSON only.`

const judgeTemplate = `You are judging whether an applicant satisfies one eligibility condition.

Condition name: {{.condition_name}}
Condition description: {{.condition_description}}
Condition type: {{.condition_type}}
Expected value: {{.condition_value}}

Applicant's answer: {{.user_answer}}

Respond with JSON only, of the form:
{"status": "PASS" | "FAIL" | "UNKNOWN", "reason": "one-sentence justification"}

Use UNKNOWN when the answer does not contain enough information to decide.`

const questionTemplate = `You are a friendly advisor helping an applicant check their eligibility{{if .policy_name}} for the program "{{.policy_name}}"{{end}}.

Write one short, polite question that asks the applicant for the information needed to verify this condition:

Name: {{.condition_name}}
Description: {{.condition_description}}
Type: {{.condition_type}}

Respond with the question text only.`

// Renderer renders named prompt templates. Unknown names and render errors
// degrade to the caller-supplied fallback, never to an error.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() *Renderer {
	r := &Renderer{templates: make(map[string]*template.Template)}
	r.add(TemplateExtract, extractTemplate)
	r.add(TemplateJudge, judgeTemplate)
	r.add(TemplateQuestion, questionTemplate)
	return r
}

func (r *Renderer) add(name, text string) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		// A broken built-in template falls through to the fallback path.
		return
	}
	r.templates[name] = tmpl
}

// Render produces the prompt for name with vars, or fallback when the
// template is unavailable or fails to execute.
func (r *Renderer) Render(name string, vars map[string]interface{}, fallback string) string {
	tmpl, ok := r.templates[name]
	if !ok {
		return fallback
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return fallback
	}
	return buf.String()
}
