package model

import "time"

// Session represents one interactive question-answering session: a single
// uploaded document plus the result of the most recent question asked against it.
// This is a pure domain model with no transport or storage dependencies.
// DocumentText is never serialized; handlers expose a truncated preview instead.
type Session struct {
	ID           string        `json:"id"`
	Filename     string        `json:"filename"`
	DocumentText string        `json:"-"`
	UploadedAt   time.Time     `json:"uploaded_at"`
	LastResult   *AnswerResult `json:"last_result,omitempty"`
}

// AnswerResult is the outcome of a single generation request. A new question
// overwrites the previous result; history is intentionally not kept.
type AnswerResult struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answered_at"`
}
