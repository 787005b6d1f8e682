package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	settings := m.settings
	return &settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.err != nil {
		return m.err
	}
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.err != nil {
		return m.err
	}
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetRetrieval(retrieval domain.RetrievalSettings) error {
	if m.err != nil {
		return m.err
	}
	if retrieval.DefaultAlpha < 0 || retrieval.DefaultAlpha > 1 {
		return domain.ErrInvalidConfiguration
	}
	m.settings.Retrieval = retrieval
	return nil
}

func (m *mockSettingsService) SetChunking(chunking domain.ChunkingSettings) error {
	if m.err != nil {
		return m.err
	}
	m.settings.Chunking = chunking
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func setupSettingsService() (*mockSettingsService, func()) {
	oldSettings := settingsService
	mock := newMockSettingsService()
	settingsService = mock
	return mock, func() {
		settingsService = oldSettings
	}
}

func TestConfigCmd_Use(t *testing.T) {
	assert.Equal(t, "config", configCmd.Use)
}

func TestConfigCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range configCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "show")
	assert.Contains(t, names, "embedding")
	assert.Contains(t, names, "llm")
	assert.Contains(t, names, "retrieval")
	assert.Contains(t, names, "chunking")
}

func TestConfigShowCmd_PrintsSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	_, restore := setupSettingsService()
	defer restore()

	out, err := execute(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Embedding]")
	assert.Contains(t, out, "Ollama (local)")
	assert.Contains(t, out, "nomic-embed-text")
	assert.Contains(t, out, "Dimensions: 768")
	assert.Contains(t, out, "[Retrieval]")
	assert.Contains(t, out, "Default alpha: 0.50")
}

func TestConfigRetrievalCmd_UpdatesAlpha(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock, restore := setupSettingsService()
	defer restore()

	out, err := execute(t, "config", "retrieval", "--alpha", "0.7")

	require.NoError(t, err)
	assert.Contains(t, out, "alpha 0.70")
	assert.InDelta(t, 0.7, mock.settings.Retrieval.DefaultAlpha, 1e-9)
}

func TestConfigRetrievalCmd_UnchangedFlagsKeepValues(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock, restore := setupSettingsService()
	defer restore()
	mock.settings.Retrieval.UseLLMClassifier = true

	_, err := execute(t, "config", "retrieval", "--alpha", "0.6")

	require.NoError(t, err)
	assert.True(t, mock.settings.Retrieval.UseLLMClassifier,
		"flags not passed must not reset stored values")
}

func TestConfigRetrievalCmd_InvalidAlphaRejected(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	_, restore := setupSettingsService()
	defer restore()

	_, err := execute(t, "config", "retrieval", "--alpha", "1.5")

	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestConfigChunkingCmd_UpdatesSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock, restore := setupSettingsService()
	defer restore()

	out, err := execute(t, "config", "chunking", "--max-len", "800", "--overlap", "150")

	require.NoError(t, err)
	assert.Contains(t, out, "max length 800, overlap 150")
	assert.Equal(t, 800, mock.settings.Chunking.MaxLen)
	assert.Equal(t, 150, mock.settings.Chunking.Overlap)
	assert.Equal(t, 100, mock.settings.Chunking.Tolerance, "untouched setting keeps its value")
}

func TestParseChoice(t *testing.T) {
	assert.Equal(t, 1, parseChoice("", 3, 1))
	assert.Equal(t, 2, parseChoice("2", 3, 1))
	assert.Equal(t, 1, parseChoice("9", 3, 1))
	assert.Equal(t, 1, parseChoice("junk", 3, 1))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
