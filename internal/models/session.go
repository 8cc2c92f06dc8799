package models

import "time"

// Session status values.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionEnded     = "ended"
)

// StudySession is one bounded interaction window between a user and a
// material. Counters are updated by the controller on every turn.
type StudySession struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	UserID     string `bson:"user_id" json:"user_id"`
	MaterialID string `bson:"material_id" json:"material_id"`

	StartTime       time.Time `bson:"start_time" json:"start_time"`
	EndTime         time.Time `bson:"end_time,omitempty" json:"end_time"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`

	TotalQuestions              int `bson:"total_questions" json:"total_questions"`
	TotalCorrect                int `bson:"total_correct" json:"total_correct"`
	ConceptsMasteredThisSession int `bson:"concepts_mastered_this_session" json:"concepts_mastered_this_session"`

	Status string `bson:"status" json:"status"`
}
