package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	askLimit   int
	askAlpha   float64
	askTimeout time.Duration
	askJSON    bool
	askExplain bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Retrieve the most relevant passages for a query",
	Long: `Runs hybrid retrieval across all ingested documents.
Combines keyword (BM25) and semantic (vector) ranking; the blend is
chosen automatically from the query, or fixed with --alpha.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 10, "maximum number of results")
	askCmd.Flags().Float64Var(&askAlpha, "alpha", -1, "fusion weight: 1 = semantic only, 0 = keyword only")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 0, "abort retrieval after this duration")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output results as JSON")
	askCmd.Flags().BoolVar(&askExplain, "explain", false, "show query classification and score breakdown")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := newCommandContext(cmd)
	opts := domain.RetrievalOptions{
		K:       askLimit,
		Timeout: askTimeout,
	}
	if askAlpha >= 0 {
		if askAlpha > 1 {
			return fmt.Errorf("%w: alpha must be in [0, 1], got %g",
				domain.ErrInvalidConfiguration, askAlpha)
		}
		alpha := askAlpha
		opts.Alpha = &alpha
	}

	if askExplain && opts.Alpha == nil {
		analysis := retrievalService.Analyze(ctx, query)
		cmd.Printf("Query class: %s (alpha %.2f)\n\n", analysis.Class, analysis.Alpha)
	}

	results, err := retrievalService.Retrieve(ctx, query, opts)
	if err != nil {
		if errors.Is(err, domain.ErrTimeout) {
			return fmt.Errorf("retrieval timed out after %s", askTimeout)
		}
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if askJSON {
		return outputResultsJSON(cmd, results)
	}
	return outputResultsTable(cmd, results)
}

func outputResultsJSON(cmd *cobra.Command, results []domain.RetrievalResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results []domain.RetrievalResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	width := terminalWidth()

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Chunk.ID, r.Score)
		if askExplain {
			cmd.Printf("      dense %.2f / sparse %.2f\n", r.DenseScore, r.SparseScore)
		}
		if r.Chunk.Page > 0 {
			cmd.Printf("      Page %d\n", r.Chunk.Page)
		}
		cmd.Printf("      %s\n", snippet(r.Chunk.Content, width-6))
		cmd.Println()
	}
	return nil
}

// terminalWidth returns the terminal width, or a sane default when not
// attached to one.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 80
}

// snippet condenses chunk content to a single line of at most max runes.
func snippet(content string, max int) string {
	line := strings.Join(strings.Fields(content), " ")
	runes := []rune(line)
	if max < 4 {
		max = 4
	}
	if len(runes) <= max {
		return line
	}
	return string(runes[:max-3]) + "..."
}
