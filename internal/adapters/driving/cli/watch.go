package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/watcher"
)

var (
	watchExtensions []string
	watchDebounce   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory and keep it ingested",
	Long: `Turns a directory into a drop folder. Existing matching files are
ingested on startup; files created or modified afterwards are
re-ingested, and removed files are deleted from the index. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchExtensions, "ext", watcher.DefaultExtensions,
		"file extensions to ingest")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond,
		"delay before ingesting after a write")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := requireIngest()
	if err != nil {
		return err
	}
	if err := requireEmbedding(); err != nil {
		return err
	}

	exts := make([]string, 0, len(watchExtensions))
	for _, e := range watchExtensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}

	w, err := watcher.New(svc, args[0],
		watcher.WithExtensions(exts),
		watcher.WithDebounce(watchDebounce))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(newCommandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (%s). Press Ctrl+C to stop.\n",
		args[0], strings.Join(exts, ", "))
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}
	return nil
}
