// Package ai provides factory functions for creating AI capability
// adapters from application settings. Unconfigured capabilities come
// back nil; the core treats nil as the capability being unavailable.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/karaar-labs/karaar/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/karaar-labs/karaar/internal/adapters/driven/embedding/ollama"
	geminillm "github.com/karaar-labs/karaar/internal/adapters/driven/llm/gemini"
	groqllm "github.com/karaar-labs/karaar/internal/adapters/driven/llm/groq"
	ollamallm "github.com/karaar-labs/karaar/internal/adapters/driven/llm/ollama"
	"github.com/karaar-labs/karaar/internal/adapters/driven/llm/resilient"
	"github.com/karaar-labs/karaar/internal/adapters/driven/websearch/tavily"
	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the AI capabilities resolved from settings.
// Any field may be nil when its capability is not configured or failed
// validation; Warnings records why.
type InitResult struct {
	Generator driven.Generator
	Embedding driven.EmbeddingService
	WebSearch driven.WebSearch
	Warnings  []string
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Generator != nil {
		r.Generator.Close()
	}
	if r.Embedding != nil {
		r.Embedding.Close()
	}
	if r.WebSearch != nil {
		r.WebSearch.Close()
	}
}

// Init resolves all AI capabilities from settings, validating
// connectivity. Validation failures degrade to a nil capability with a
// warning rather than failing startup.
func Init(ctx context.Context, settings domain.AppSettings) *InitResult {
	result := &InitResult{}

	generator, err := CreateAndValidateGenerator(ctx, settings.Generator)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.Generator = generator
	}

	embedding, err := CreateAndValidateEmbedding(ctx, settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.Embedding = embedding
	}

	search, err := CreateWebSearch(settings.Search)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.WebSearch = search
	}

	return result
}

// CreateAndValidateGenerator creates a generator and validates
// connectivity. Returns (nil, nil) when generation is not configured.
// The returned generator retries rate-limited calls with backoff.
func CreateAndValidateGenerator(
	ctx context.Context, settings domain.GeneratorSettings,
) (driven.Generator, error) {
	gen, err := CreateGenerator(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check 'karaar config'", domain.ErrGenerationUnavailable, err)
	}
	if gen == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := gen.Ping(pingCtx); err != nil {
		gen.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check 'karaar config'",
			domain.ErrGenerationUnavailable, err)
	}

	return resilient.Wrap(gen, resilient.Config{}), nil
}

// CreateAndValidateEmbedding creates an embedding service and validates
// connectivity. Returns (nil, nil) when embeddings are not configured.
func CreateAndValidateEmbedding(
	ctx context.Context, settings domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbedding(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check 'karaar config'", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check 'karaar config'",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateGenerator creates the generator for the configured provider.
// Returns nil when generation is not configured.
func CreateGenerator(ctx context.Context, settings domain.GeneratorSettings) (driven.Generator, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.New(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	case domain.AIProviderGroq:
		return groqllm.New(groqllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.New(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", settings.Provider)
	}
}

// CreateEmbedding creates the embedding service for the configured
// provider. Returns nil when embeddings are not configured.
func CreateEmbedding(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiembed.New(ctx, geminiembed.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamaembed.New(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderGroq:
		return nil, fmt.Errorf("groq does not offer embeddings, use gemini or ollama")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateWebSearch creates the Tavily web search client.
// Returns nil when web search is not configured.
func CreateWebSearch(settings domain.SearchSettings) (driven.WebSearch, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	client, err := tavily.New(tavily.Config{
		APIKey:     settings.APIKey,
		MaxResults: settings.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}
	return client, nil
}
