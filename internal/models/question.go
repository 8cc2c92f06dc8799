package models

import "time"

// Question is one phrasing of a test for a concept in a specific mode.
// Many questions exist per (concept, mode) so the controller can avoid
// repeats within a session.
type Question struct {
	ID           string                 `bson:"_id,omitempty" json:"id"`
	ConceptID    string                 `bson:"concept_id" json:"concept_id"`
	Mode         string                 `bson:"mode" json:"mode"`
	QuestionText string                 `bson:"question_text" json:"question_text"`
	AnswerText   string                 `bson:"answer_text" json:"answer_text"`
	Difficulty   int                    `bson:"difficulty" json:"difficulty"`
	Data         map[string]interface{} `bson:"data" json:"data"`
	CreatedAt    time.Time              `bson:"created_at" json:"created_at"`
}
