package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
	"github.com/karaar-labs/karaar/internal/logger"
)

// QAService answers questions about an analyzed document by retrieving the
// most relevant chunks and grounding the generator on them.
type QAService struct {
	generator driven.Generator
	embedding driven.EmbeddingService
	settings  domain.AnalysisSettings
}

// NewQAService creates a question-answering service. Generator and embedding
// may be nil; Ask fails fast with the matching unavailability error.
func NewQAService(
	generator driven.Generator,
	embedding driven.EmbeddingService,
	settings domain.AnalysisSettings,
) *QAService {
	return &QAService{
		generator: generator,
		embedding: embedding,
		settings:  settings,
	}
}

// Ask retrieves the top chunks for the question from the index and generates
// a grounded answer.
func (s *QAService) Ask(ctx context.Context, index driven.VectorIndex, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("ask: %w: empty question", domain.ErrInvalidInput)
	}
	if s.embedding == nil {
		return "", fmt.Errorf("ask: %w", domain.ErrEmbeddingUnavailable)
	}
	if s.generator == nil {
		return "", fmt.Errorf("ask: %w", domain.ErrGenerationUnavailable)
	}
	if index == nil {
		return "", fmt.Errorf("ask: %w", domain.ErrIndexUnavailable)
	}

	logger.Section("Question Answering")
	logger.Debug("Question: %q", question)

	queryEmbedding, err := s.embedding.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	k := s.settings.RetrievalK
	if k <= 0 {
		k = domain.DefaultRetrievalK
	}

	chunks, err := index.Search(ctx, queryEmbedding, k)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	logger.Debug("Retrieved %d chunks for grounding", len(chunks))

	var contextParts []string
	for _, chunk := range chunks {
		contextParts = append(contextParts, chunk.Content)
	}

	prompt := fmt.Sprintf(
		"You are a helpful assistant answering questions about a legal document for a worker "+
			"in India. Answer the question using ONLY the document excerpts below. Use simple, "+
			"clear language. If the excerpts do not contain the answer, say so honestly and "+
			"suggest consulting a legal professional.\n\nDocument excerpts:\n%s\n\nQuestion: %s",
		strings.Join(contextParts, "\n---\n"), question,
	)

	answer, err := s.generator.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return strings.TrimSpace(answer), nil
}
