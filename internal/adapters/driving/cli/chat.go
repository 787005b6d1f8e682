package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Chat with your documents",
	Long: `Ask questions about the ingested documents.

With a question argument, answers once and exits. Without one, opens an
interactive chat session that keeps conversation context across turns.

Controls (interactive mode):
  Enter    - Send question
  Ctrl+C   - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	sessionID := uuid.NewString()

	if len(args) == 1 {
		return answerOnce(cmd, sessionID, args[0])
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	model := tui.NewChat(chatService, sessionID)
	model.WithContext(cmd.Context())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}

func answerOnce(cmd *cobra.Command, sessionID, question string) error {
	answer, err := chatService.Ask(newCommandContext(cmd), sessionID, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if answer.Text != "" {
		cmd.Println(answer.Text)
		cmd.Println()
	}

	if len(answer.Sources) == 0 {
		if answer.Text == "" {
			cmd.Println("No relevant passages found.")
		}
		return nil
	}

	cmd.Println("Sources:")
	for i := range answer.Sources {
		src := &answer.Sources[i]
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, src.Chunk.ID, src.Score)
	}
	return nil
}
