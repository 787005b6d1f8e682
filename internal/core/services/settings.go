package services

import (
	"fmt"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyEmbedDims     = "embedding.dimensions"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyChunkMaxLen   = "chunking.max_len"
	keyChunkOverlap  = "chunking.overlap"
	keyChunkTol      = "chunking.tolerance"
	keyDefaultAlpha  = "retrieval.default_alpha"
	keyLLMClassifier = "retrieval.use_llm_classifier"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			MaxLen:  s.getInt(keyChunkMaxLen, defaults.Chunking.MaxLen),
			Overlap: s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
			Tolerance: s.getIntAllowZero(
				keyChunkTol, defaults.Chunking.Tolerance),
		},
		Retrieval: domain.RetrievalSettings{
			DefaultAlpha:     s.getAlpha(defaults.Retrieval.DefaultAlpha),
			UseLLMClassifier: s.getBool(keyLLMClassifier, defaults.Retrieval.UseLLMClassifier),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	pairs := []struct {
		key string
		val any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyChunkMaxLen, settings.Chunking.MaxLen},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyChunkTol, settings.Chunking.Tolerance},
		{keyDefaultAlpha, settings.Retrieval.DefaultAlpha},
		{keyLLMClassifier, settings.Retrieval.UseLLMClassifier},
	}

	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.val); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// API keys are only written when present, so clearing a provider does
	// not blank a previously stored key by accident.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s",
			domain.ErrInvalidConfiguration, provider)
	}
	if _, ok := domain.DefaultEmbeddingModels()[provider]; !ok {
		return fmt.Errorf("%w: provider %s does not support embeddings",
			domain.ErrInvalidConfiguration, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s",
			domain.ErrInvalidConfiguration, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.APIKey = apiKey

	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers use their published endpoints
		settings.Embedding.BaseURL = ""
	}

	if dims, ok := domain.EmbeddingModelDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = dims
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s",
			domain.ErrInvalidConfiguration, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s",
			domain.ErrInvalidConfiguration, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.APIKey = apiKey

	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	return s.Save(settings)
}

// SetRetrieval updates retrieval tuning.
func (s *SettingsService) SetRetrieval(retrieval domain.RetrievalSettings) error {
	if retrieval.DefaultAlpha < 0 || retrieval.DefaultAlpha > 1 {
		return fmt.Errorf("%w: default alpha must be in [0, 1], got %g",
			domain.ErrInvalidConfiguration, retrieval.DefaultAlpha)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Retrieval = retrieval
	return s.Save(settings)
}

// SetChunking updates chunking parameters. The same bounds apply as at
// split time, so bad values are rejected before they reach an ingest.
func (s *SettingsService) SetChunking(chunking domain.ChunkingSettings) error {
	if chunking.MaxLen <= 0 {
		return fmt.Errorf("%w: max length must be positive, got %d",
			domain.ErrInvalidConfiguration, chunking.MaxLen)
	}
	if chunking.Overlap < 0 || chunking.Tolerance < 0 {
		return fmt.Errorf("%w: overlap and tolerance must be non-negative",
			domain.ErrInvalidConfiguration)
	}
	if chunking.Overlap >= chunking.MaxLen {
		return fmt.Errorf("%w: overlap %d must be smaller than max length %d",
			domain.ErrInvalidConfiguration, chunking.Overlap, chunking.MaxLen)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Chunking = chunking
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicitly stored zero as a real value.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getAlpha(defaultVal float64) float64 {
	if _, exists := s.configStore.Get(keyDefaultAlpha); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(keyDefaultAlpha)
	if val < 0 || val > 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
