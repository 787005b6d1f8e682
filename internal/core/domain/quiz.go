package domain

// QuizType identifies the style of a generated quiz question.
type QuizType string

// Available quiz question types.
const (
	QuizTypeMultipleChoice QuizType = "multiple_choice"
	QuizTypeTrueFalse      QuizType = "true_false"
	QuizTypeShortAnswer    QuizType = "short_answer"
)

// IsValid returns true if the quiz type is recognised.
func (t QuizType) IsValid() bool {
	switch t {
	case QuizTypeMultipleChoice, QuizTypeTrueFalse, QuizTypeShortAnswer:
		return true
	default:
		return false
	}
}

// QuizQuestion is a question generated from indexed material.
type QuizQuestion struct {
	// Question is the question text.
	Question string `json:"question"`

	// Options maps option letters to answers, only for multiple choice.
	Options map[string]string `json:"options,omitempty"`

	// Answer is the expected answer ("A".."D", "True"/"False", or free text).
	Answer string `json:"answer"`

	// Explanation justifies the answer.
	Explanation string `json:"explanation"`

	// Type is the question style.
	Type QuizType `json:"type"`

	// SourceChunkID is the chunk the question was generated from.
	SourceChunkID string `json:"source_chunk_id,omitempty"`
}
