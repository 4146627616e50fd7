package driven

import (
	"context"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

// SessionStore persists session records. The serving layer owns the
// store and passes it into the core by reference; the core never keeps
// module-level session state.
type SessionStore interface {
	// Save stores a session record.
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID.
	// Returns domain.ErrSessionNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session record.
	// Returns domain.ErrSessionNotFound when absent.
	Delete(ctx context.Context, id string) error

	// List returns all stored sessions, newest first.
	List(ctx context.Context) ([]domain.Session, error)
}
