// Package driving provides interfaces for application entry points
// (primary/inbound ports).
package driving

import (
	"context"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

// DemystifyService is the primary port for document analysis sessions.
// Implemented by services.SessionService and consumed by the CLI and
// HTTP adapters.
type DemystifyService interface {
	// Create ingests the document at filePath, runs the analysis
	// pipeline, builds the retrieval index and registers a session.
	// Fails with domain.ErrEmptyDocument when no text is extractable;
	// every other degradation is absorbed into the report. The file
	// remains owned by the caller and is left in place on Delete.
	Create(ctx context.Context, filePath string) (*domain.Session, error)

	// CreateUpload is Create for a file the service takes ownership
	// of, such as a copy saved by an upload handler; it is removed
	// together with the session on Delete.
	CreateUpload(ctx context.Context, filePath string) (*domain.Session, error)

	// Get returns the session for the given ID.
	// Fails with domain.ErrSessionNotFound when absent.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Ask answers a question grounded in the session's document.
	Ask(ctx context.Context, sessionID, question string) (string, error)

	// Delete removes the session and, when the session owns its file,
	// the persisted upload.
	Delete(ctx context.Context, sessionID string) error

	// List returns all registered sessions, newest first.
	List(ctx context.Context) ([]domain.Session, error)
}
