package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrEmptyDocument indicates no text could be extracted from an
	// uploaded document. This is the only fatal condition for session
	// creation; everything else degrades.
	ErrEmptyDocument = errors.New("no extractable text in document")

	// ErrSessionNotFound indicates the session identifier is unknown
	// or the session has been deleted.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document format with no registered
	// extractor.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrGenerationUnavailable indicates the text-generation service is
	// not configured. Analysis stages substitute placeholder output.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval and document Q&A are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSearchUnavailable indicates the web search service is not
	// configured. Term enrichment proceeds without search grounding.
	ErrSearchUnavailable = errors.New("web search service unavailable")

	// ErrIndexUnavailable indicates the session's retrieval index was
	// built without embeddings and cannot answer similarity queries.
	ErrIndexUnavailable = errors.New("retrieval index unavailable")

	// ErrRateLimited indicates the provider rate limit was exceeded and
	// bounded retries were exhausted.
	ErrRateLimited = errors.New("rate limited")
)
