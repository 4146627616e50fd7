package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/karaar-labs/karaar/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockGenerator implements driven.Generator for testing. Responses are
// matched by prompt substring so one mock can serve every pipeline stage.
type mockGenerator struct {
	mu sync.Mutex

	// responses maps a prompt substring to the canned completion.
	responses map[string]string

	// structured maps a prompt substring to canned structured JSON.
	structured map[string]string

	// defaultResponse is returned when no substring matches.
	defaultResponse string

	generateErr   error
	structuredErr error

	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.generateErr != nil {
		return "", m.generateErr
	}
	for key, response := range m.responses {
		if strings.Contains(prompt, key) {
			return response, nil
		}
	}
	return m.defaultResponse, nil
}

func (m *mockGenerator) GenerateStructured(_ context.Context, prompt string, _ driven.ResponseSchema) ([]byte, error) {
	if m.structuredErr != nil {
		return nil, m.structuredErr
	}
	for key, response := range m.structured {
		if strings.Contains(prompt, key) {
			return []byte(response), nil
		}
	}
	return nil, driven.ErrStructuredUnsupported
}

func (m *mockGenerator) ModelName() string { return "mock-generator" }

func (m *mockGenerator) Ping(_ context.Context) error { return nil }

func (m *mockGenerator) Close() error { return nil }

func (m *mockGenerator) promptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockWebSearch implements driven.WebSearch for testing.
type mockWebSearch struct {
	mu sync.Mutex

	digest    string
	searchErr error
	queries   []string
}

func (m *mockWebSearch) Search(_ context.Context, query string) (string, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.searchErr != nil {
		return "", m.searchErr
	}
	return m.digest, nil
}

func (m *mockWebSearch) Close() error { return nil }

func (m *mockWebSearch) queryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// mockEmbedding implements driven.EmbeddingService for testing. Each text
// gets a vector derived from its length so distinct texts stay separable.
type mockEmbedding struct {
	embedErr error
	dims     int
}

func (m *mockEmbedding) vector(text string) []float32 {
	n := float32(len(text)%7 + 1)
	return []float32{n, 1, 0}
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vector(text)
	}
	return result, nil
}

func (m *mockEmbedding) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbedding) ModelName() string { return "mock-embed" }

func (m *mockEmbedding) Ping(_ context.Context) error { return nil }

func (m *mockEmbedding) Close() error { return nil }

// mockExtractor implements the DocumentExtractor seam for testing.
type mockExtractor struct {
	text       string
	meta       map[string]any
	extractErr error
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (string, map[string]any, error) {
	if m.extractErr != nil {
		return "", nil, m.extractErr
	}
	return m.text, m.meta, nil
}

// fixedResponse builds a prompt-substring key for a term lookup so tests
// can pin per-term generator output.
func termKey(term string) string {
	return fmt.Sprintf("%q", term)
}
