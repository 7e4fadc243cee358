// internal/eligibility/condition.go
package eligibility

import "strings"

// Status is the judgment state of a single eligibility condition.
type Status string

const (
	StatusUnknown Status = "UNKNOWN"
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
)

// Result is the final verdict of an eligibility review.
type Result string

const (
	ResultEligible        Result = "ELIGIBLE"
	ResultNotEligible     Result = "NOT_ELIGIBLE"
	ResultCannotDetermine Result = "CANNOT_DETERMINE"
)

// Condition is one extracted eligibility rule together with its current
// judgment.
type Condition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	Logic       string `json:"logic"`
	Status      Status `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// typeToSlotKey maps condition categories to the applicant fact slot that
// answers them. Conditions of the same category share one slot, so a single
// answer can settle several conditions at once.
var typeToSlotKey = map[string]string{
	"Age":                "age",
	"Business Age":       "business_age",
	"Location":           "location",
	"Business Type":      "business_type",
	"Experience":         "experience",
	"Financial Status":   "financial_status",
	"Tech & Innovation":  "tech_innovation",
	"Application Type":   "application_type",
	"Individual Traits":  "individual_traits",
	"Business Objective": "business_objective",
	"Collaboration":      "collaboration",
	"Legal & Social":     "legal_social",
	"Employment Status":  "employment_status",
	"Compliance & Tax":   "compliance_tax",
	"business_status":    "business_status",
}

// SlotKey returns the fact slot this condition reads from. Unmapped
// categories fall back to the raw category, then the condition name, so
// one-off rules still get a stable slot of their own.
func (c Condition) SlotKey() string {
	if key, ok := typeToSlotKey[c.Type]; ok {
		return key
	}
	if typ := strings.TrimSpace(c.Type); typ != "" {
		return typ
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return "unknown_slot"
}

// IsAndCondition reports whether the condition belongs to the mandatory
// group. Anything that is not explicitly marked OR is treated as AND.
func (c Condition) IsAndCondition() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Logic), "OR")
}

// normalizeStatus coerces a model-reported status onto the closed set.
// Anything unrecognized counts as UNKNOWN.
func normalizeStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(StatusPass):
		return StatusPass
	case string(StatusFail):
		return StatusFail
	default:
		return StatusUnknown
	}
}
