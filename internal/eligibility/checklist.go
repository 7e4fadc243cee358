// internal/eligibility/checklist.go
package eligibility

import "strings"

// BuildChecklist projects the conditions into reviewer-facing lines. The
// label carries the expected value unless the name already mentions it.
func BuildChecklist(conditions []Condition) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(conditions))
	for i, cond := range conditions {
		name := strings.TrimSpace(cond.Name)
		value := strings.TrimSpace(cond.Value)

		label := name
		if value != "" && !strings.Contains(name, value) {
			label = name + ": " + value
		}

		items = append(items, ChecklistItem{
			Index:       i,
			Label:       label,
			Description: cond.Description,
			Status:      cond.Status,
			Reason:      cond.Reason,
		})
	}
	return items
}

// ApplyChecklist returns a copy of the conditions with reviewer overrides
// applied. Selections pointing outside the list or carrying a status off
// the closed set are ignored; the input slice is never mutated.
func ApplyChecklist(conditions []Condition, selections []ChecklistSelection) []Condition {
	out := make([]Condition, len(conditions))
	copy(out, conditions)

	for _, sel := range selections {
		if sel.Index < 0 || sel.Index >= len(out) {
			continue
		}
		switch sel.Status {
		case StatusPass, StatusFail, StatusUnknown:
		default:
			continue
		}
		out[sel.Index].Status = sel.Status
		out[sel.Index].Reason = "manual checklist override"
	}
	return out
}
