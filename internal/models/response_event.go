package models

import "time"

// ResponseEvent is an append-only record of one answer, skip or peek
// action. Written once, never mutated; the correct-answer timestamps feed
// the recall predictor.
type ResponseEvent struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	UserID     string `bson:"user_id" json:"user_id"`
	ConceptID  string `bson:"concept_id" json:"concept_id"`
	QuestionID string `bson:"question_id,omitempty" json:"question_id,omitempty"`
	SessionID  string `bson:"session_id" json:"session_id"`

	Mode       string `bson:"mode" json:"mode"`
	UserAnswer string `bson:"user_answer" json:"user_answer"`
	IsCorrect  bool   `bson:"is_correct" json:"is_correct"`
	IsPartial  bool   `bson:"is_partial" json:"is_partial"`

	ResponseTimeMs int `bson:"response_time_ms" json:"response_time_ms"`
	HesitationMs   int `bson:"hesitation_ms" json:"hesitation_ms"`

	DifficultyAtTime int `bson:"difficulty_at_time" json:"difficulty_at_time"`
	SequenceNumber   int `bson:"sequence_number" json:"sequence_number"`

	Skipped bool `bson:"skipped" json:"skipped"`
	Peeked  bool `bson:"peeked" json:"peeked"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
