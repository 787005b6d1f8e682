package driving

import (
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// SettingsService manages persisted application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults filled in
	// for anything not configured.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider. An empty
	// model selects the provider's recommended default.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider. An empty model selects
	// the provider's recommended default.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetRetrieval updates retrieval tuning.
	SetRetrieval(settings domain.RetrievalSettings) error

	// SetChunking updates chunking parameters.
	SetChunking(settings domain.ChunkingSettings) error

	// GetDefaults returns the out-of-the-box settings.
	GetDefaults() domain.AppSettings
}
