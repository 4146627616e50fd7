// Package extractors converts uploaded document files into plain text.
// Each subpackage handles one format (PDF, DOCX, plain text); the
// Registry selects an extractor by file extension.
package extractors

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
)

// Registry maps file extensions to extractors.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry over the given extractors.
// Later extractors win on extension conflicts.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, ext := range e.SupportedExtensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// Extract picks an extractor for the file's extension and runs it.
// Returns domain.ErrUnsupportedType for unknown extensions and
// domain.ErrEmptyDocument when no text is recoverable.
func (r *Registry) Extract(ctx context.Context, path string) (string, map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return "", nil, domain.ErrUnsupportedType
	}

	text, meta, err := e.Extract(ctx, path)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil, domain.ErrEmptyDocument
	}
	return text, meta, nil
}

// Supported returns the sorted list of registered extensions.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
