// Package pdf extracts plain text from PDF documents.
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
	"github.com/karaar-labs/karaar/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract reads the PDF at path and returns the concatenated text of all
// pages. Pages that fail text extraction are skipped; only a document
// with no recoverable text at all is an error.
func (e *Extractor) Extract(_ context.Context, path string) (string, map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", nil, fmt.Errorf("stat pdf: %w", err)
	}

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return "", nil, fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	pageCount := reader.NumPage()

	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf: page %d text extraction failed: %v", i, err)
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n")
	}

	content := strings.TrimSpace(builder.String())
	if content == "" {
		return "", nil, domain.ErrEmptyDocument
	}

	meta := map[string]any{
		"format":     "pdf",
		"page_count": pageCount,
	}
	return content, meta, nil
}
