// Package memory provides an in-memory vector index with exact cosine
// similarity search. One index is built per session and read-only
// afterwards, so a flat scan over the document's chunks is sufficient.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
type Index struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// New creates an empty in-memory vector index.
func New() *Index {
	return &Index{}
}

// Add inserts a chunk with its embedding.
func (ix *Index) Add(_ context.Context, chunk domain.Chunk) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("chunk %s: %w", chunk.ID, domain.ErrInvalidInput)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.chunks = append(ix.chunks, chunk)
	return nil
}

// Search returns the k chunks nearest to the query vector by cosine
// similarity, ties broken by original chunk position.
func (ix *Index) Search(_ context.Context, query []float32, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.chunks) == 0 {
		return nil, domain.ErrIndexUnavailable
	}

	type scored struct {
		chunk domain.Chunk
		score float64
	}

	results := make([]scored, 0, len(ix.chunks))
	for _, c := range ix.chunks {
		sim, err := cosineSimilarity(query, c.Embedding)
		if err != nil {
			return nil, err
		}
		results = append(results, scored{chunk: c, score: sim})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].chunk.Position < results[j].chunk.Position
	})

	if k > len(results) {
		k = len(results)
	}

	top := make([]domain.Chunk, k)
	for i := 0; i < k; i++ {
		top[i] = results[i].chunk
	}
	return top, nil
}

// Len reports the number of indexed chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Close releases resources. A no-op for the in-memory index.
func (ix *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := 0; i < len(a); i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
