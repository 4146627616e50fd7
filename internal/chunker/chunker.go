// Package chunker provides a sliding-window text splitter with overlap.
package chunker

import (
	"fmt"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 200

// Splitter splits document text into fixed-size overlapping chunks.
// Splitting is deterministic: the same text and configuration always
// yield the same chunk sequence, including chunk IDs.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay below chunk size or the window never advances.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured maximum chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split divides content into chunks for the given document ID.
// Empty content produces no chunks. Chunk IDs are derived from the
// document ID and position so repeated splits are identical.
func (s *Splitter) Split(documentID, content string) []domain.Chunk {
	if content == "" {
		return nil
	}

	contentLen := len(content)
	step := s.chunkSize - s.overlap

	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	position := 0
	for start := 0; start < contentLen; start += step {
		end := start + s.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s:%d", documentID, position),
			DocumentID: documentID,
			Content:    content[start:end],
			Position:   position,
		})
		position++

		if end == contentLen {
			break
		}
	}

	return chunks
}
