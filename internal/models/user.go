package models

import "time"

// User carries the lifetime counters the mastery judge and session
// teardown update.
type User struct {
	ID                      string    `bson:"_id,omitempty" json:"id"`
	Email                   string    `bson:"email" json:"email"`
	TotalConceptsMastered   int       `bson:"total_concepts_mastered" json:"total_concepts_mastered"`
	TotalSessionTimeMinutes int       `bson:"total_session_time_minutes" json:"total_session_time_minutes"`
	CreatedAt               time.Time `bson:"created_at" json:"created_at"`
}
