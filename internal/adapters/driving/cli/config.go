package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	configAlpha         float64
	configLLMClassifier bool
	configMaxLen        int
	configOverlap       int
	configTolerance     int
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking, and retrieval tuning.

Use subcommands to configure specific settings.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider for semantic retrieval.`,
	RunE:  runConfigEmbedding,
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider for answer generation, quizzes, and query classification.`,
	RunE:  runConfigLLM,
}

var configRetrievalCmd = &cobra.Command{
	Use:   "retrieval",
	Short: "Tune retrieval fusion",
	Long: `Tune how dense and sparse rankings are blended.

The default alpha applies to queries classified as mixed; factual and
conceptual queries use their own fixed weights.`,
	RunE: runConfigRetrieval,
}

var configChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Configure document chunking",
	Long:  `Configure chunk size, overlap, and sentence-boundary tolerance. Applies to future ingests only.`,
	RunE:  runConfigChunking,
}

func init() {
	configRetrievalCmd.Flags().Float64Var(&configAlpha, "alpha", 0.5, "default fusion weight for mixed queries")
	configRetrievalCmd.Flags().BoolVar(&configLLMClassifier, "llm-classifier", false, "use the LLM to classify queries")
	configChunkingCmd.Flags().IntVar(&configMaxLen, "max-len", 1000, "exclusive upper bound on chunk length")
	configChunkingCmd.Flags().IntVar(&configOverlap, "overlap", 200, "characters repeated from the previous chunk")
	configChunkingCmd.Flags().IntVar(&configTolerance, "tolerance", 100, "sentence boundary back-scan window (0 disables)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEmbeddingCmd)
	configCmd.AddCommand(configLLMCmd)
	configCmd.AddCommand(configRetrievalCmd)
	configCmd.AddCommand(configChunkingCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	printProviderSettings(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	cmd.Println()

	cmd.Println("[LLM]")
	printProviderSettings(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Max length: %d\n", settings.Chunking.MaxLen)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Printf("  Tolerance: %d\n", settings.Chunking.Tolerance)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Default alpha: %.2f\n", settings.Retrieval.DefaultAlpha)
	cmd.Printf("  LLM classifier: %v\n", settings.Retrieval.UseLLMClassifier)
	cmd.Println()

	return nil
}

func printProviderSettings(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

//nolint:dupl // Similar to runConfigLLM but for embeddings - intentional for CLI flow clarity
func runConfigEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	svc, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	if svc != nil {
		defer svc.Close() //nolint:errcheck
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selected.Description(), model)
	return nil
}

//nolint:dupl // Similar to runConfigEmbedding but for LLM - intentional for CLI flow clarity
func runConfigLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	svc, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	if svc != nil {
		defer svc.Close() //nolint:errcheck
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selected.Description(), model)
	return nil
}

func runConfigRetrieval(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	retrieval := settings.Retrieval
	if cmd.Flags().Changed("alpha") {
		retrieval.DefaultAlpha = configAlpha
	}
	if cmd.Flags().Changed("llm-classifier") {
		retrieval.UseLLMClassifier = configLLMClassifier
	}

	if err := settingsService.SetRetrieval(retrieval); err != nil {
		return fmt.Errorf("failed to update retrieval settings: %w", err)
	}

	cmd.Printf("Retrieval settings updated: alpha %.2f, LLM classifier %v\n",
		retrieval.DefaultAlpha, retrieval.UseLLMClassifier)
	return nil
}

func runConfigChunking(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	chunking := settings.Chunking
	if cmd.Flags().Changed("max-len") {
		chunking.MaxLen = configMaxLen
	}
	if cmd.Flags().Changed("overlap") {
		chunking.Overlap = configOverlap
	}
	if cmd.Flags().Changed("tolerance") {
		chunking.Tolerance = configTolerance
	}

	if err := settingsService.SetChunking(chunking); err != nil {
		return fmt.Errorf("failed to update chunking settings: %w", err)
	}

	cmd.Printf("Chunking settings updated: max length %d, overlap %d, tolerance %d\n",
		chunking.MaxLen, chunking.Overlap, chunking.Tolerance)
	cmd.Println("Re-ingest documents for the new chunking to take effect.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
