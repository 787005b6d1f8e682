package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API (LLM only).
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders lists providers that offer an embeddings API.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders lists providers that offer a text generation API.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider endpoint (mainly for Ollama).
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// Dimensions is the embedding vector size; must match the model.
	Dimensions int
}

// IsConfigured returns true when enough fields are set to build a service.
func (s *EmbeddingSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings configures the LLM provider.
type LLMSettings struct {
	// Provider selects the LLM backend.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider endpoint (mainly for Ollama).
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string
}

// IsConfigured returns true when enough fields are set to build a service.
func (s *LLMSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// MaxLen is the exclusive upper bound on chunk length in characters.
	MaxLen int

	// Overlap is the number of characters repeated from the previous chunk.
	Overlap int

	// Tolerance is the back-scan window for sentence boundaries; 0 disables
	// the adjustment.
	Tolerance int
}

// RetrievalSettings configures the retrieval engine.
type RetrievalSettings struct {
	// DefaultAlpha is the fusion weight used for mixed/uncertain queries.
	DefaultAlpha float64

	// UseLLMClassifier enables LLM-assisted query classification.
	UseLLMClassifier bool
}

// DefaultChunkingSettings returns the standard chunking configuration.
func DefaultChunkingSettings() ChunkingSettings {
	return ChunkingSettings{MaxLen: 1000, Overlap: 200, Tolerance: 100}
}

// DefaultRetrievalSettings returns the standard retrieval configuration.
func DefaultRetrievalSettings() RetrievalSettings {
	return RetrievalSettings{DefaultAlpha: 0.5}
}
