// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "eligibility-engine/internal/common/errors"
	"eligibility-engine/internal/common/logger"
	"eligibility-engine/internal/eligibility"
	"eligibility-engine/internal/policy"
	"eligibility-engine/internal/session"
)

// PolicyStore is the slice of the Postgres store the handlers need.
type PolicyStore interface {
	GetPolicy(ctx context.Context, id int64) (*policy.Policy, error)
	RecordSession(ctx context.Context, sessionID string, policyID int64) error
	SaveResult(ctx context.Context, st *eligibility.State) error
}

// AuditIndexer records completed verdicts for later audit queries.
type AuditIndexer interface {
	IndexVerdict(ctx context.Context, st *eligibility.State) error
}

// ReviewNotifier alerts operations about verdicts that need a human.
type ReviewNotifier interface {
	NotifyManualReview(ctx context.Context, st *eligibility.State) error
}

// Server wires the eligibility engine to its HTTP surface.
type Server struct {
	engine   *eligibility.Engine
	sessions session.Store
	policies PolicyStore
	audit    AuditIndexer
	notifier ReviewNotifier
	logger   logger.Logger
}

// Option configures optional collaborators.
type Option func(*Server)

func WithAudit(indexer AuditIndexer) Option {
	return func(s *Server) { s.audit = indexer }
}

func WithNotifier(notifier ReviewNotifier) Option {
	return func(s *Server) { s.notifier = notifier }
}

func New(engine *eligibility.Engine, sessions session.Store, policies PolicyStore, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		policies: policies,
		logger: log.With(map[string]interface{}{
			"component": "server",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Route("/eligibility", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/answer", s.handleAnswer)
		r.Get("/result/{session_id}", s.handleResult)
		r.Get("/checklist/{session_id}", s.handleGetChecklist)
		r.Post("/checklist/{session_id}", s.handleApplyChecklist)
		r.Delete("/session/{session_id}", s.handleDeleteSession)
	})

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) writeStandardError(w http.ResponseWriter, status int, serr *apperrors.StandardError) {
	s.logger.Warn("request rejected", map[string]interface{}{
		"code":     string(serr.Code),
		"category": apperrors.GetErrorCategory(serr.Code),
		"details":  serr.Details,
	})
	s.writeJSON(w, status, ErrorResponse{Code: string(serr.Code), Error: serr.Message})
}
