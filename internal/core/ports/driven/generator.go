// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
package driven

import (
	"context"
	"errors"
)

// ErrStructuredUnsupported is returned by GenerateStructured when the
// underlying provider cannot honour a response schema.
var ErrStructuredUnsupported = errors.New("structured output not supported")

// Generator produces text from prompts via a hosted language model.
// This is an optional capability - when nil, analysis stages degrade to
// placeholder output and document Q&A is disabled.
//
// Implementations may include:
//   - Google Gemini (google.golang.org/genai)
//   - Groq (OpenAI-compatible chat completions)
//   - Ollama (local models)
type Generator interface {
	// Generate produces a text completion from a prompt.
	// Returns domain.ErrRateLimited when the provider reports rate
	// limiting, so callers can retry with backoff.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateStructured produces a JSON response conforming to the
	// given schema description. Implementations that cannot constrain
	// output return ErrStructuredUnsupported; callers then fall back to
	// marker-based parsing of a plain Generate call.
	GenerateStructured(ctx context.Context, prompt string, schema ResponseSchema) ([]byte, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup before committing to an analysis mode.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// ResponseSchema describes the expected JSON shape for structured
// generation. Kept deliberately small: flat objects with string fields
// cover every structured call the pipeline makes.
type ResponseSchema struct {
	// Fields maps property names to human-readable descriptions.
	Fields map[string]string

	// Required lists property names that must be present.
	Required []string
}
