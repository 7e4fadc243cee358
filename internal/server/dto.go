// internal/server/dto.go
package server

import "eligibility-engine/internal/eligibility"

// ==========================
// Request / Response DTOs
// ==========================

type StartRequest struct {
	PolicyID  int64  `json:"policy_id"`
	SessionID string `json:"session_id,omitempty"`
}

type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type StartResponse struct {
	SessionID string   `json:"session_id"`
	PolicyID  int64    `json:"policy_id"`
	Question  string   `json:"question"`
	Progress  Progress `json:"progress"`
}

type AnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type AnswerResponse struct {
	SessionID string   `json:"session_id"`
	Question  *string  `json:"question"`
	Progress  Progress `json:"progress"`
	Completed bool     `json:"completed"`
}

type ConditionResult struct {
	Condition string `json:"condition"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

type ResultResponse struct {
	SessionID string            `json:"session_id"`
	PolicyID  int64             `json:"policy_id"`
	Result    string            `json:"result"`
	Reason    string            `json:"reason"`
	Details   []ConditionResult `json:"details"`
}

type ChecklistResponse struct {
	SessionID string                      `json:"session_id"`
	Items     []eligibility.ChecklistItem `json:"items"`
	Result    string                      `json:"result,omitempty"`
	Reason    string                      `json:"reason,omitempty"`
}

type ChecklistApplyRequest struct {
	Selections []eligibility.ChecklistSelection `json:"selections"`
}

type DeleteResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}
