// internal/policy/store.go
package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "eligibility-engine/internal/common/errors"
	"eligibility-engine/internal/eligibility"
)

// ErrNotFound is returned when no policy exists for an id.
var ErrNotFound = errors.New("POLICY_NOT_FOUND")

// Policy is one support program row.
type Policy struct {
	ID            int64
	ProgramName   string
	ApplyTarget   string
	ContactAgency string
	ContactNumber string
}

// Store reads program metadata and records review outcomes in Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetPolicy loads one program by id.
func (s *Store) GetPolicy(ctx context.Context, id int64) (*Policy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, program_name, apply_target, contact_agency, contact_number
		FROM policies
		WHERE id = $1`, id)

	var p Policy
	var applyTarget, contactAgency, contactNumber sql.NullString
	err := row.Scan(&p.ID, &p.ProgramName, &applyTarget, &contactAgency, &contactNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query policy %d: %w", id, err)
	}

	p.ApplyTarget = applyTarget.String
	p.ContactAgency = contactAgency.String
	p.ContactNumber = contactNumber.String
	return &p, nil
}

// RecordSession inserts the session row that ties a review to its program.
func (s *Store) RecordSession(ctx context.Context, sessionID string, policyID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, policy_id, workflow_type, created_at)
		VALUES ($1, $2, 'ELIGIBILITY', $3)`,
		sessionID, policyID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record session %s: %w", sessionID, err)
	}
	return nil
}

// resultToDB maps workflow verdicts onto the checklist_results enum.
var resultToDB = map[eligibility.Result]string{
	eligibility.ResultEligible:        "PASS",
	eligibility.ResultNotEligible:     "FAIL",
	eligibility.ResultCannotDetermine: "UNKNOWN",
}

func mapResultForDB(result eligibility.Result) string {
	if mapped, ok := resultToDB[result]; ok {
		return mapped
	}
	return string(result)
}

// SaveResult persists the final verdict of a completed review.
func (s *Store) SaveResult(ctx context.Context, st *eligibility.State) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_results (session_id, policy_id, result, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		st.SessionID, st.PolicyID, mapResultForDB(st.FinalResult), st.Reason, time.Now().UTC())
	if err != nil {
		return apperrors.NewResultPersistFailedError(fmt.Errorf("session %s: %w", st.SessionID, err))
	}
	return nil
}

// Lookup adapts the store to the engine's policy reader. Unknown programs
// come back as (nil, nil) so the engine can treat them as missing
// metadata rather than a hard failure.
func (s *Store) Lookup(ctx context.Context, policyID int64) (*eligibility.PolicyInfo, error) {
	p, err := s.GetPolicy(ctx, policyID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &eligibility.PolicyInfo{
		ID:            p.ID,
		ProgramName:   p.ProgramName,
		ContactAgency: p.ContactAgency,
		ContactNumber: p.ContactNumber,
	}, nil
}
