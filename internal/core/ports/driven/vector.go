package driven

import (
	"context"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

// VectorIndex provides similarity search over a document's chunks.
// An index is built once per session and read-only afterwards.
type VectorIndex interface {
	// Add inserts a chunk with its embedding.
	Add(ctx context.Context, chunk domain.Chunk) error

	// Search returns the k chunks whose embeddings are nearest to the
	// query vector, ordered by descending similarity. Ties are broken
	// by original chunk position.
	Search(ctx context.Context, query []float32, k int) ([]domain.Chunk, error)

	// Len reports the number of indexed chunks.
	Len() int

	// Close releases resources.
	Close() error
}
