// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "eligibility-engine/internal/common/errors"
	"eligibility-engine/internal/common/metrics"
	"eligibility-engine/internal/eligibility"
	"eligibility-engine/internal/policy"
	"eligibility-engine/internal/session"
)

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()

	pol, err := s.policies.GetPolicy(ctx, req.PolicyID)
	if errors.Is(err, policy.ErrNotFound) {
		s.writeStandardError(w, http.StatusNotFound, apperrors.NewPolicyNotFoundError(req.PolicyID))
		return
	}
	if err != nil {
		s.writeStandardError(w, http.StatusInternalServerError, apperrors.NewPolicyLookupFailedError(err))
		return
	}
	if strings.TrimSpace(pol.ApplyTarget) == "" {
		s.writeStandardError(w, http.StatusBadRequest, apperrors.NewEmptyApplyTargetError(req.PolicyID))
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	st := eligibility.NewState(sessionID, req.PolicyID, pol.ApplyTarget)
	s.engine.RunStart(ctx, st)

	if err := s.sessions.Save(ctx, st); err != nil {
		s.writeStandardError(w, http.StatusInternalServerError, apperrors.NewSessionStoreFailedError(err))
		return
	}

	if err := s.policies.RecordSession(ctx, sessionID, req.PolicyID); err != nil {
		// The review can continue without the bookkeeping row.
		s.logger.Warn("session record failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	metrics.SessionsActive.Inc()
	s.logger.Info("eligibility check started", map[string]interface{}{
		"session_id":       sessionID,
		"policy_id":        req.PolicyID,
		"total_conditions": len(st.Conditions),
	})

	question := st.CurrentQuestion
	if question == "" && !st.Completed {
		question = "Unable to generate a question."
	}

	s.writeJSON(w, http.StatusOK, StartResponse{
		SessionID: sessionID,
		PolicyID:  req.PolicyID,
		Question:  question,
		Progress:  progressOf(st),
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()

	st, ok := s.loadSession(ctx, w, req.SessionID)
	if !ok {
		return
	}

	if st.Completed {
		// A late answer never reopens the review.
		serr := apperrors.NewAnswerOutOfSequenceError(req.SessionID, st.Cursor, len(st.Conditions))
		s.logger.Warn("answer arrived after completion", map[string]interface{}{
			"session_id": req.SessionID,
			"code":       string(serr.Code),
			"details":    serr.Details,
		})
	}

	s.engine.RunAnswer(ctx, st, req.Answer)

	if err := s.sessions.Save(ctx, st); err != nil {
		s.writeStandardError(w, http.StatusInternalServerError, apperrors.NewSessionStoreFailedError(err))
		return
	}

	s.logger.Info("eligibility answer processed", map[string]interface{}{
		"session_id": req.SessionID,
		"completed":  st.Completed,
	})

	var question *string
	if !st.Completed {
		q := st.CurrentQuestion
		question = &q
	}

	s.writeJSON(w, http.StatusOK, AnswerResponse{
		SessionID: req.SessionID,
		Question:  question,
		Progress:  progressOf(st),
		Completed: st.Completed,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := r.Context()

	st, ok := s.loadSession(ctx, w, sessionID)
	if !ok {
		return
	}
	if !st.Completed {
		s.writeStandardError(w, http.StatusBadRequest, apperrors.NewSessionNotCompletedError(sessionID))
		return
	}

	s.engine.RunResult(ctx, st)

	if err := s.sessions.Save(ctx, st); err != nil {
		s.logger.Warn("session save failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	if err := s.policies.SaveResult(ctx, st); err != nil {
		s.logger.Error("result persist failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	if s.audit != nil {
		if err := s.audit.IndexVerdict(ctx, st); err != nil {
			s.logger.Warn("verdict audit failed", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyManualReview(ctx, st); err != nil {
			s.logger.Warn("manual review alert failed", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	details := make([]ConditionResult, 0, len(st.Conditions))
	for _, cond := range st.Conditions {
		details = append(details, ConditionResult{
			Condition: cond.Name,
			Status:    string(cond.Status),
			Reason:    cond.Reason,
		})
	}

	s.logger.Info("eligibility result retrieved", map[string]interface{}{
		"session_id": sessionID,
		"result":     string(st.FinalResult),
	})

	s.writeJSON(w, http.StatusOK, ResultResponse{
		SessionID: sessionID,
		PolicyID:  st.PolicyID,
		Result:    string(st.FinalResult),
		Reason:    st.Reason,
		Details:   details,
	})
}

func (s *Server) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	ctx := r.Context()

	st, ok := s.loadSession(ctx, w, sessionID)
	if !ok {
		return
	}

	st.Checklist = eligibility.BuildChecklist(st.Conditions)
	st.ChecklistResult = string(st.FinalResult)
	if err := s.sessions.Save(ctx, st); err != nil {
		s.logger.Warn("checklist snapshot not persisted", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	s.writeJSON(w, http.StatusOK, ChecklistResponse{
		SessionID: sessionID,
		Items:     st.Checklist,
		Result:    st.ChecklistResult,
		Reason:    st.Reason,
	})
}

func (s *Server) handleApplyChecklist(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	var req ChecklistApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()

	st, ok := s.loadSession(ctx, w, sessionID)
	if !ok {
		return
	}

	st.Conditions = eligibility.ApplyChecklist(st.Conditions, req.Selections)
	if st.Completed {
		// Overrides can change the outcome of a finished review.
		s.engine.Aggregate(ctx, st)
	}
	st.Checklist = eligibility.BuildChecklist(st.Conditions)
	st.ChecklistResult = string(st.FinalResult)

	if err := s.sessions.Save(ctx, st); err != nil {
		s.writeStandardError(w, http.StatusInternalServerError, apperrors.NewSessionStoreFailedError(err))
		return
	}

	s.writeJSON(w, http.StatusOK, ChecklistResponse{
		SessionID: sessionID,
		Items:     st.Checklist,
		Result:    st.ChecklistResult,
		Reason:    st.Reason,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := r.Context()

	if _, ok := s.loadSession(ctx, w, sessionID); !ok {
		return
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.writeStandardError(w, http.StatusInternalServerError, apperrors.NewSessionStoreFailedError(err))
		return
	}

	metrics.SessionsActive.Dec()
	s.logger.Info("eligibility session deleted", map[string]interface{}{
		"session_id": sessionID,
	})

	s.writeJSON(w, http.StatusOK, DeleteResponse{
		Message:   "session deleted",
		SessionID: sessionID,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loadSession(ctx context.Context, w http.ResponseWriter, sessionID string) (*eligibility.State, bool) {
	st, err := s.sessions.Load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		s.writeStandardError(w, http.StatusNotFound, apperrors.NewSessionNotFoundError(sessionID))
		return nil, false
	}
	if err != nil {
		s.writeStandardError(w, http.StatusInternalServerError, apperrors.NewSessionStoreFailedError(err))
		return nil, false
	}
	return st, true
}

func progressOf(st *eligibility.State) Progress {
	total := len(st.Conditions)
	current := st.Cursor + 1
	if current > total {
		current = total
	}
	return Progress{Current: current, Total: total}
}
