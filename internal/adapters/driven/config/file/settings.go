// Package file provides TOML-backed application settings.
// Settings are stored in ~/.karaar/config.toml; API keys may also be
// supplied via environment variables, which take precedence.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

// Environment variable overrides for credentials.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGroqAPIKey   = "GROQ_API_KEY"
	EnvTavilyAPIKey = "TAVILY_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

// fileSettings is the on-disk TOML shape.
type fileSettings struct {
	Generator struct {
		Provider string `toml:"provider"`
		Model    string `toml:"model"`
		BaseURL  string `toml:"base_url"`
		APIKey   string `toml:"api_key"`
	} `toml:"generator"`

	Embedding struct {
		Provider   string `toml:"provider"`
		Model      string `toml:"model"`
		BaseURL    string `toml:"base_url"`
		APIKey     string `toml:"api_key"`
		Dimensions int    `toml:"dimensions"`
	} `toml:"embedding"`

	Search struct {
		APIKey     string `toml:"api_key"`
		MaxResults int    `toml:"max_results"`
	} `toml:"search"`

	Analysis struct {
		ChunkSize    int    `toml:"chunk_size"`
		ChunkOverlap int    `toml:"chunk_overlap"`
		ContextCap   int    `toml:"context_cap"`
		RetrievalK   int    `toml:"retrieval_k"`
		Jurisdiction string `toml:"jurisdiction"`
	} `toml:"analysis"`
}

// DefaultConfigDir returns ~/.karaar.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".karaar"), nil
}

// LoadSettings reads settings from configDir/config.toml, applies
// defaults and environment overrides. A missing file is not an error;
// settings then come from defaults and the environment alone.
func LoadSettings(configDir string) (domain.AppSettings, error) {
	var settings domain.AppSettings

	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return settings, err
		}
		configDir = dir
	}

	var raw fileSettings
	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return settings, fmt.Errorf("parsing config.toml: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults and environment only.
	default:
		return settings, fmt.Errorf("reading config.toml: %w", err)
	}

	settings.Generator = domain.GeneratorSettings{
		Provider: domain.AIProvider(raw.Generator.Provider),
		Model:    raw.Generator.Model,
		BaseURL:  raw.Generator.BaseURL,
		APIKey:   raw.Generator.APIKey,
	}
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProvider(raw.Embedding.Provider),
		Model:    raw.Embedding.Model,
		BaseURL:  raw.Embedding.BaseURL,
		APIKey:   raw.Embedding.APIKey,
	}
	settings.Search = domain.SearchSettings{
		APIKey:     raw.Search.APIKey,
		MaxResults: raw.Search.MaxResults,
	}
	settings.Analysis = domain.AnalysisSettings{
		ChunkSize:    raw.Analysis.ChunkSize,
		ChunkOverlap: raw.Analysis.ChunkOverlap,
		ContextCap:   raw.Analysis.ContextCap,
		RetrievalK:   raw.Analysis.RetrievalK,
		Jurisdiction: raw.Analysis.Jurisdiction,
	}

	applyDefaults(&settings)
	applyEnvOverrides(&settings)

	return settings, nil
}

// SaveSettings writes settings to configDir/config.toml.
func SaveSettings(configDir string, settings domain.AppSettings) error {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var raw fileSettings
	raw.Generator.Provider = settings.Generator.Provider.String()
	raw.Generator.Model = settings.Generator.Model
	raw.Generator.BaseURL = settings.Generator.BaseURL
	raw.Generator.APIKey = settings.Generator.APIKey
	raw.Embedding.Provider = settings.Embedding.Provider.String()
	raw.Embedding.Model = settings.Embedding.Model
	raw.Embedding.BaseURL = settings.Embedding.BaseURL
	raw.Embedding.APIKey = settings.Embedding.APIKey
	raw.Search.APIKey = settings.Search.APIKey
	raw.Search.MaxResults = settings.Search.MaxResults
	raw.Analysis.ChunkSize = settings.Analysis.ChunkSize
	raw.Analysis.ChunkOverlap = settings.Analysis.ChunkOverlap
	raw.Analysis.ContextCap = settings.Analysis.ContextCap
	raw.Analysis.RetrievalK = settings.Analysis.RetrievalK
	raw.Analysis.Jurisdiction = settings.Analysis.Jurisdiction

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	return os.WriteFile(filepath.Join(configDir, "config.toml"), data, 0600)
}

// applyDefaults fills unset fields with working defaults.
func applyDefaults(s *domain.AppSettings) {
	if s.Generator.Provider == "" {
		s.Generator.Provider = domain.AIProviderGemini
	}
	if s.Embedding.Provider == "" {
		s.Embedding.Provider = domain.AIProviderGemini
	}
	if s.Search.MaxResults <= 0 {
		s.Search.MaxResults = 5
	}
	if s.Analysis.ChunkSize <= 0 {
		s.Analysis.ChunkSize = 1000
	}
	if s.Analysis.ChunkOverlap <= 0 {
		s.Analysis.ChunkOverlap = 200
	}
	if s.Analysis.ContextCap <= 0 {
		s.Analysis.ContextCap = 2000
	}
	if s.Analysis.RetrievalK <= 0 {
		s.Analysis.RetrievalK = 3
	}
	if s.Analysis.Jurisdiction == "" {
		s.Analysis.Jurisdiction = "Indian law"
	}
}

// applyEnvOverrides lets environment variables win over file values.
func applyEnvOverrides(s *domain.AppSettings) {
	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		if s.Generator.Provider == domain.AIProviderGemini {
			s.Generator.APIKey = key
		}
		if s.Embedding.Provider == domain.AIProviderGemini {
			s.Embedding.APIKey = key
		}
	}
	if key := os.Getenv(EnvGroqAPIKey); key != "" && s.Generator.Provider == domain.AIProviderGroq {
		s.Generator.APIKey = key
	}
	if key := os.Getenv(EnvTavilyAPIKey); key != "" {
		s.Search.APIKey = key
	}
	if host := os.Getenv(EnvOllamaHost); host != "" {
		if s.Generator.Provider == domain.AIProviderOllama {
			s.Generator.BaseURL = host
		}
		if s.Embedding.Provider == domain.AIProviderOllama {
			s.Embedding.BaseURL = host
		}
	}
}
