package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/extract"
)

var (
	ingestID    string
	ingestTitle string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file ...]",
	Short: "Ingest documents into the index",
	Long: `Reads files (plain text, Markdown, or HTML), extracts their text,
splits it into overlapping chunks, embeds the chunks, and adds them to
both retrieval indexes. Re-ingesting a file with the same ID replaces
its previous version completely.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document ID (single file only; default: file name)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (single file only; default: file name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	svc, err := requireIngest()
	if err != nil {
		return err
	}
	if err := requireEmbedding(); err != nil {
		return err
	}
	if len(args) > 1 && (ingestID != "" || ingestTitle != "") {
		return fmt.Errorf("--id and --title only apply when ingesting a single file")
	}

	ctx := newCommandContext(cmd)
	for _, path := range args {
		doc, err := extract.FromFile(path)
		if err != nil {
			return err
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		docID := ingestID
		if docID == "" {
			docID = sanitizeDocumentID(base)
		}
		title := ingestTitle
		if title == "" {
			title = doc.Title
		}

		cmd.Printf("Ingesting %s as %q...\n", path, docID)
		if err := svc.Ingest(ctx, docID, title, doc.Text, nil); err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
	}

	cmd.Printf("Ingested %d document(s).\n", len(args))
	return nil
}
