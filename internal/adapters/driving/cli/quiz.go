package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

var (
	quizType  string
	quizCount int
)

var quizCmd = &cobra.Command{
	Use:   "quiz [topic]",
	Short: "Generate quiz questions from ingested material",
	Long: `Generates quiz questions grounded in the ingested documents.
Without a topic, questions are drawn from the start of the collection.

Question types: multiple_choice, true_false, short_answer`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().StringVarP(&quizType, "type", "t", string(domain.QuizTypeMultipleChoice), "question type")
	quizCmd.Flags().IntVarP(&quizCount, "count", "n", 1, "number of questions")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	if quizService == nil {
		return fmt.Errorf("%w: quiz generation requires a configured LLM provider. Run 'askdoc config llm' to set one up", domain.ErrLLMUnavailable)
	}

	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}
	qType := domain.QuizType(quizType)
	if !qType.IsValid() {
		return fmt.Errorf("%w: unknown question type %q", domain.ErrInvalidConfiguration, quizType)
	}

	ctx := newCommandContext(cmd)
	for i := 0; i < quizCount; i++ {
		question, err := quizService.GenerateQuestion(ctx, topic, qType)
		if err != nil {
			return fmt.Errorf("generate question: %w", err)
		}
		printQuestion(cmd, i+1, question)
	}
	return nil
}

func printQuestion(cmd *cobra.Command, n int, q *domain.QuizQuestion) {
	cmd.Printf("Q%d: %s\n", n, q.Question)

	if len(q.Options) > 0 {
		letters := make([]string, 0, len(q.Options))
		for letter := range q.Options {
			letters = append(letters, letter)
		}
		sort.Strings(letters)
		for _, letter := range letters {
			cmd.Printf("  %s) %s\n", letter, q.Options[letter])
		}
	}

	cmd.Printf("\nAnswer: %s\n", q.Answer)
	if q.Explanation != "" {
		cmd.Printf("Explanation: %s\n", q.Explanation)
	}
	cmd.Println()
}
