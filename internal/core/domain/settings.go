package domain

// AppSettings aggregates all user-configurable settings.
type AppSettings struct {
	// Embedding configures the embedding provider.
	Embedding EmbeddingSettings

	// LLM configures the LLM provider.
	LLM LLMSettings

	// Chunking configures how documents are split.
	Chunking ChunkingSettings

	// Retrieval configures query analysis and fusion.
	Retrieval RetrievalSettings
}

// DefaultAppSettings returns the out-of-the-box configuration: local
// Ollama for both AI services, standard chunking, balanced fusion.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      "nomic-embed-text",
			BaseURL:    "http://localhost:11434",
			Dimensions: 768,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
		Chunking:  DefaultChunkingSettings(),
		Retrieval: DefaultRetrievalSettings(),
	}
}

// DefaultEmbeddingModels maps each provider to its recommended embedding
// model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels maps each provider to its recommended LLM.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingModelDimensions maps known embedding models to their vector
// sizes.
func EmbeddingModelDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
