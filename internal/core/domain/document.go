package domain

import "time"

// Document represents an uploaded legal document after text extraction.
// It is the canonical representation before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path or upload name).
	URI string

	// Title is the human-readable title, usually the file name.
	Title string

	// Content is the full plain text after extraction.
	Content string

	// Metadata contains extractor-specific key-value pairs
	// (page count, MIME type, and the like).
	Metadata map[string]any

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Documents are split into overlapping chunks for embedding and retrieval.
// Chunks are immutable once created and preserve document order via
// Position.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for similarity search.
	// Nil until the retrieval index is built.
	Embedding []float32
}
