// internal/session/store.go
package session

import (
	"context"
	"errors"

	"eligibility-engine/internal/eligibility"
)

// ErrNotFound is returned when no state exists for a session id.
var ErrNotFound = errors.New("SESSION_NOT_FOUND")

// Store persists review state between HTTP turns.
type Store interface {
	Load(ctx context.Context, sessionID string) (*eligibility.State, error)
	Save(ctx context.Context, st *eligibility.State) error
	Delete(ctx context.Context, sessionID string) error
}
