// internal/eligibility/state.go
package eligibility

// State is the full review context for one applicant session. It is the
// unit of persistence: the session store serializes the whole struct
// between HTTP turns.
type State struct {
	SessionID   string `json:"session_id"`
	PolicyID    int64  `json:"policy_id"`
	ApplyTarget string `json:"apply_target"`

	Conditions []Condition       `json:"conditions"`
	Slots      map[string]string `json:"user_slots"`

	CurrentQuestion string `json:"current_question,omitempty"`
	Cursor          int    `json:"current_condition_index"`
	PendingAnswer   string `json:"user_answer,omitempty"`

	ExtraRequirements string `json:"extra_requirements,omitempty"`

	Checklist       []ChecklistItem `json:"checklist,omitempty"`
	ChecklistResult string          `json:"checklist_result,omitempty"`

	Completed   bool   `json:"completed"`
	FinalResult Result `json:"final_result,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ChecklistItem is one reviewer-facing line of the checklist projection.
type ChecklistItem struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// ChecklistSelection is one manual status override submitted by a reviewer.
type ChecklistSelection struct {
	Index  int    `json:"index"`
	Status Status `json:"status"`
}

// NewState builds a fresh review state for the given session and policy.
func NewState(sessionID string, policyID int64, applyTarget string) *State {
	return &State{
		SessionID:   sessionID,
		PolicyID:    policyID,
		ApplyTarget: applyTarget,
		Conditions:  []Condition{},
		Slots:       make(map[string]string),
	}
}

// Progress reports how many conditions have been settled out of the total.
func (s *State) Progress() (current, total int) {
	total = len(s.Conditions)
	for _, c := range s.Conditions {
		if c.Status != StatusUnknown {
			current++
		}
	}
	return current, total
}
