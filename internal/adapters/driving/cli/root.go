// Package cli provides the cobra command tree and wires the application
// together: config, stores, indexes, AI services, and the core services
// built on top of them.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	indexmem "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

// Wired services, shared by all commands. Tests replace these with mocks
// and set initialized to skip wiring.
var (
	initialized bool

	configStore      driven.ConfigStore
	settingsService  driving.SettingsService
	retrievalService driving.RetrievalService
	ingestService    driving.IngestService
	chatService      driving.ChatService
	quizService      driving.QuizService
	documentStore    driven.DocumentStore

	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	sqliteStore      *sqlite.Store

	// embeddingErr remembers why the embedding service is missing, so
	// commands that need it can report the cause.
	embeddingErr error
)

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your documents",
	Long: `askdoc is a local-first study assistant. It ingests documents, indexes
them for hybrid retrieval (BM25 + semantic vectors), and answers
questions about them using a configurable LLM provider.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

// Execute runs the root command.
func Execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.askdoc)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.askdoc/data)")
}

// initApp wires the application for the command about to run. Commands
// that only touch configuration get a lightweight setup without opening
// the document store or pinging AI providers.
func initApp(cmd *cobra.Command, _ []string) error {
	if initialized {
		return nil
	}
	logger.SetVerbose(flagVerbose)

	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return nil
	}

	store, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = store
	settingsService = services.NewSettingsService(configStore)

	if isConfigCommand(cmd) {
		initialized = true
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// AI services are optional: retrieval degrades to sparse-only without
	// an embedder, chat returns sources without an LLM.
	embeddingService, embeddingErr = ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if embeddingErr != nil {
		logger.Warn("%v", embeddingErr)
		embeddingService = nil
	}
	llmService, err = ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("%v", err)
		llmService = nil
	}

	sqliteStore, err = sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	documentStore = sqliteStore

	vectors := indexmem.NewVectorIndex(settings.Embedding.Dimensions)
	keywords := indexmem.NewKeywordIndex()

	var classifier driven.LLMService
	if settings.Retrieval.UseLLMClassifier {
		classifier = llmService
	}
	analyzer := services.NewAnalyzer(classifier, settings.Retrieval.DefaultAlpha)
	retrievalService = services.NewRetrievalService(
		analyzer, embeddingService, vectors, keywords, documentStore)

	ingest, err := services.NewIngestService(
		settings.Chunking, embeddingService, vectors, keywords, documentStore)
	if err != nil {
		return fmt.Errorf("create ingest service: %w", err)
	}
	ingestService = ingest

	// The indexes live in memory; restore them from the persisted chunks.
	if err := ingest.Rebuild(cmd.Context()); err != nil {
		return fmt.Errorf("rebuild indexes: %w", err)
	}

	chatService = services.NewChatService(retrievalService, llmService)
	if llmService != nil {
		quiz, err := services.NewQuizService(retrievalService, documentStore, llmService)
		if err != nil {
			return fmt.Errorf("create quiz service: %w", err)
		}
		quizService = quiz
	}

	initialized = true
	return nil
}

// isConfigCommand reports whether cmd is `askdoc config` or one of its
// subcommands.
func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// closeApp releases wired resources.
func closeApp() {
	if embeddingService != nil {
		_ = embeddingService.Close()
	}
	if llmService != nil {
		_ = llmService.Close()
	}
	if sqliteStore != nil {
		_ = sqliteStore.Close()
	}
}

// requireIngest returns the ingest service or a helpful error.
func requireIngest() (driving.IngestService, error) {
	if ingestService == nil {
		return nil, fmt.Errorf("ingest service not configured")
	}
	return ingestService, nil
}

// requireEmbedding surfaces the reason the embedding service is missing
// before a command that cannot run without one does any work.
func requireEmbedding() error {
	if embeddingService == nil && embeddingErr != nil {
		return embeddingErr
	}
	return nil
}

// sanitizeDocumentID makes a string safe to use as a document ID.
// Underscores are reserved for chunk ID derivation.
func sanitizeDocumentID(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
}

// newCommandContext returns the context to use for command execution.
func newCommandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
