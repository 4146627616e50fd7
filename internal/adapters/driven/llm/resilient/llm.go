// Package resilient decorates a Generator with bounded retry on rate
// limiting. Provider 429s are retried with exponential backoff and
// jitter; once attempts are exhausted the rate-limit error is surfaced
// unchanged so callers can report it explicitly.
package resilient

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
	"github.com/karaar-labs/karaar/internal/logger"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// Default retry tuning.
const (
	DefaultMaxRetries      = 4
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 8 * time.Second
)

// Config holds retry configuration.
type Config struct {
	// MaxRetries bounds the number of retry attempts after the first
	// call (default: 4).
	MaxRetries int

	// InitialInterval is the first backoff delay (default: 500ms).
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay (default: 8s).
	MaxInterval time.Duration
}

// Generator wraps an inner Generator with retry behaviour.
type Generator struct {
	inner driven.Generator
	cfg   Config
}

// Wrap decorates gen with bounded rate-limit retries.
func Wrap(gen driven.Generator, cfg Config) *Generator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultInitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = DefaultMaxInterval
	}
	return &Generator{inner: gen, cfg: cfg}
}

// retry runs op with exponential backoff, retrying only rate-limit
// errors. Any other error is permanent.
func (g *Generator) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.cfg.InitialInterval
	b.MaxInterval = g.cfg.MaxInterval

	policy := backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(g.cfg.MaxRetries)), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrRateLimited) {
			logger.Warn("generator rate limited, backing off: %v", err)
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

// Generate produces a text completion, retrying on rate limits.
func (g *Generator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var result string
	err := g.retry(ctx, func() error {
		var callErr error
		result, callErr = g.inner.Generate(ctx, prompt, opts)
		return callErr
	})
	return result, err
}

// GenerateStructured produces a structured response, retrying on rate
// limits. ErrStructuredUnsupported passes through immediately.
func (g *Generator) GenerateStructured(ctx context.Context, prompt string, schema driven.ResponseSchema) ([]byte, error) {
	var result []byte
	err := g.retry(ctx, func() error {
		var callErr error
		result, callErr = g.inner.GenerateStructured(ctx, prompt, schema)
		return callErr
	})
	return result, err
}

// ModelName returns the inner generator's model name.
func (g *Generator) ModelName() string {
	return g.inner.ModelName()
}

// Ping validates the inner service is reachable.
func (g *Generator) Ping(ctx context.Context) error {
	return g.inner.Ping(ctx)
}

// Close releases the inner generator's resources.
func (g *Generator) Close() error {
	return g.inner.Close()
}
