package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for generation or
// embeddings.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderGroq, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderGroq
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// GeneratorSettings holds text-generation provider configuration.
type GeneratorSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible hosts).
	BaseURL string

	// APIKey is the API key (for Gemini/Groq).
	APIKey string
}

// IsConfigured returns true if the generation provider is set up.
func (g GeneratorSettings) IsConfigured() bool {
	if !g.Provider.IsValid() {
		return false
	}
	if g.Provider.RequiresAPIKey() && g.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for Gemini).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// SearchSettings holds web search provider configuration.
type SearchSettings struct {
	// APIKey is the Tavily API key.
	APIKey string

	// MaxResults is how many results to request per query.
	MaxResults int
}

// IsConfigured returns true if web search is set up.
func (s SearchSettings) IsConfigured() bool {
	return s.APIKey != ""
}

// DefaultRetrievalK is the number of chunks retrieved for grounding when
// no explicit value is configured.
const DefaultRetrievalK = 3

// AnalysisSettings holds pipeline tuning knobs.
type AnalysisSettings struct {
	// ChunkSize is the maximum chunk size in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int

	// ContextCap bounds the document context passed to generation
	// prompts, in characters.
	ContextCap int

	// RetrievalK is the number of chunks retrieved for Q&A grounding.
	RetrievalK int

	// Jurisdiction scopes web search queries (e.g. "Indian law").
	Jurisdiction string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Generator holds text-generation provider settings.
	Generator GeneratorSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Search holds web search provider settings.
	Search SearchSettings

	// Analysis holds pipeline tuning settings.
	Analysis AnalysisSettings
}
