package domain

import "time"

// Session associates an uploaded document with its analysis report and
// retrieval index, addressed by an opaque identifier. Sessions are
// independent of each other and immutable once built; the registry only
// inserts, looks up and deletes whole records.
type Session struct {
	// ID is the opaque unique session token.
	ID string

	// Document is the ingested document.
	Document Document

	// Report is the analysis report produced at creation time.
	Report Report

	// Chunks are the document's chunks with their embeddings, kept so
	// the retrieval index can be rebuilt from a persisted session.
	Chunks []Chunk

	// FilePath is the service-owned upload copy on disk, removed on
	// Delete. Empty when the document stayed under the caller's
	// ownership; such files are never removed.
	FilePath string

	// CreatedAt is when the session was created.
	CreatedAt time.Time
}
