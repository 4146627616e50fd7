// Package gemini provides a Generator adapter using the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Config holds configuration for the Gemini generator.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the generation model to use (default: gemini-2.0-flash).
	Model string
}

// Generator produces text using the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

// New creates a new Gemini generator.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Generator{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Generate produces a text completion from a prompt.
func (g *Generator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	config := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", mapError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: empty completion")
	}
	return text, nil
}

// GenerateStructured produces a JSON response conforming to the schema.
// Gemini supports schema-constrained output natively via responseSchema.
func (g *Generator) GenerateStructured(ctx context.Context, prompt string, schema driven.ResponseSchema) ([]byte, error) {
	properties := make(map[string]*genai.Schema, len(schema.Fields))
	for name, description := range schema.Fields {
		properties[name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: description,
		}
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: properties,
			Required:   schema.Required,
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return nil, mapError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini: empty structured response")
	}
	return []byte(text), nil
}

// ModelName returns the name of the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping validates the service is reachable with a lightweight request.
func (g *Generator) Ping(ctx context.Context) error {
	_, err := g.Generate(ctx, "ping", driven.GenerateOptions{MaxTokens: 1})
	if err != nil && !errors.Is(err, domain.ErrRateLimited) {
		return err
	}
	return nil
}

// Close releases resources. The genai client holds no resources that
// need explicit release.
func (g *Generator) Close() error {
	return nil
}

// mapError translates provider errors into domain sentinels where the
// caller needs to distinguish them.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr.Message)
		}
	}
	return fmt.Errorf("gemini: %w", err)
}
