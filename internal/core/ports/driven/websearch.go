package driven

import "context"

// WebSearch provides grounding context from the public web.
// This is an optional capability - when nil, term enrichment runs
// without search grounding and relies on the generator alone.
type WebSearch interface {
	// Search runs a query and returns a flattened digest of the top
	// results (title, snippet, URL per result) suitable for inclusion
	// in a generation prompt.
	Search(ctx context.Context, query string) (string, error)

	// Close releases resources.
	Close() error
}
