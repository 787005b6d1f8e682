package domain

import "time"

// Exchange is a single question/answer turn in a conversation.
type Exchange struct {
	// Question is the user's question.
	Question string

	// Answer is the generated answer.
	Answer string

	// SourceChunkIDs are the chunks the answer was grounded on.
	SourceChunkIDs []string

	// AskedAt is when the exchange happened.
	AskedAt time.Time
}
