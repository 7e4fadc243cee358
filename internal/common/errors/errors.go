// Package errors provides standardized error handling for the eligibility
// workflow and its external collaborators.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input errors surfaced to the caller as explicit rejections.
	ErrCodeEmptyApplyTarget    ErrorCode = "EMPTY_APPLY_TARGET"
	ErrCodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionNotCompleted ErrorCode = "SESSION_NOT_COMPLETED"
	ErrCodeAnswerOutOfSequence ErrorCode = "ANSWER_OUT_OF_SEQUENCE"
	ErrCodePolicyNotFound      ErrorCode = "POLICY_NOT_FOUND"

	// Collaborator failures, always recovered into degraded results.
	ErrCodeGenerationFailed   ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout  ErrorCode = "GENERATION_TIMEOUT"
	ErrCodePolicyLookupFailed ErrorCode = "POLICY_LOOKUP_FAILED"

	// Parse failures, distinct from generic collaborator failures because
	// they usually indicate prompt/schema drift worth surfacing to operators.
	ErrCodeConditionParseFailed ErrorCode = "CONDITION_PARSE_FAILED"
	ErrCodeJudgmentParseFailed  ErrorCode = "JUDGMENT_PARSE_FAILED"

	// Storage errors.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeResultPersistFailed      ErrorCode = "RESULT_PERSIST_FAILED"
	ErrCodeSessionStoreFailed       ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeAuditIndexFailed       ErrorCode = "AUDIT_INDEX_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewEmptyApplyTargetError creates a non-retryable input error for a policy
// with no eligibility rule text.
func NewEmptyApplyTargetError(policyID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyApplyTarget,
		Message:   "Policy has no eligibility rule text",
		Details:   fmt.Sprintf("policyId: %d", policyID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable session lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Eligibility session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotCompletedError creates a non-retryable sequencing error for a
// result request on an unfinished session.
func NewSessionNotCompletedError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotCompleted,
		Message:   "Eligibility check is not completed yet",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnswerOutOfSequenceError creates a non-retryable sequencing error.
func NewAnswerOutOfSequenceError(sessionID string, cursor, total int) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnswerOutOfSequence,
		Message:   "Answer submitted after all conditions were resolved",
		Details:   fmt.Sprintf("sessionId: %s, cursor: %d, conditions: %d", sessionID, cursor, total),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPolicyNotFoundError creates a non-retryable policy lookup error.
func NewPolicyNotFoundError(policyID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodePolicyNotFound,
		Message:   "Policy not found",
		Details:   fmt.Sprintf("policyId: %d", policyID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable generation service error.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Text generation service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError creates a retryable generation timeout error.
func NewGenerationTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Text generation service timeout",
		Details:   "generation call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPolicyLookupFailedError creates a retryable policy store error.
func NewPolicyLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePolicyLookupFailed,
		Message:   "Database error during policy lookup",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConditionParseFailedError creates a non-retryable parse error for a
// malformed condition-extraction payload. Marks the session for manual review.
func NewConditionParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConditionParseFailed,
		Message:   "Condition extraction payload could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewJudgmentParseFailedError creates a non-retryable parse error for a
// malformed judgment payload.
func NewJudgmentParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJudgmentParseFailed,
		Message:   "Judgment payload could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResultPersistFailedError creates a retryable result persistence error.
func NewResultPersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResultPersistFailed,
		Message:   "Final verdict could not be persisted",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable session store error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditIndexFailedError creates a retryable audit indexing error.
func NewAuditIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditIndexFailed,
		Message:   "Audit index write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeGenerationFailed,
		ErrCodePolicyLookupFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeResultPersistFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeAuditIndexFailed:
		return 3 // Retryable technical errors

	case ErrCodeGenerationTimeout:
		return 1

	default:
		return 0 // Input and parse errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "POLICY"):
		return "POLICY"
	case strings.Contains(codeStr, "GENERATION"):
		return "AI"
	case strings.Contains(codeStr, "PARSE"):
		return "PARSE"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "PERSIST"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
