package driven

import "context"

// Extractor converts a document file into plain text.
// One extractor per format; selection is by file extension.
type Extractor interface {
	// Extract reads the file at path and returns its plain text along
	// with extractor-specific metadata. Returns domain.ErrEmptyDocument
	// when no text is recoverable.
	Extract(ctx context.Context, path string) (string, map[string]any, error)

	// SupportedExtensions returns the lower-case file extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string
}
