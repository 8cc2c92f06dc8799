package models

import "time"

// Learning-state categories for a (user, concept) pair. Mastered is
// terminal within a session.
const (
	StateUntouched  = "untouched"
	StateLearning   = "learning"
	StateStruggling = "struggling"
	StateProficient = "proficient"
	StateMastered   = "mastered"
)

// UserConceptState is the mutable mastery record for one (user, concept)
// pair. Accuracy is always derived from the attempt counters; it is stored
// only for querying and recomputed on every update.
type UserConceptState struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	UserID    string `bson:"user_id" json:"user_id"`
	ConceptID string `bson:"concept_id" json:"concept_id"`

	State string `bson:"state" json:"state"`

	// Criterion 1: accuracy
	Accuracy        float64 `bson:"accuracy" json:"accuracy"`
	TotalAttempts   int     `bson:"total_attempts" json:"total_attempts"`
	CorrectAttempts int     `bson:"correct_attempts" json:"correct_attempts"`

	// Criterion 2: stability
	ConsecutivePerfect int `bson:"consecutive_perfect" json:"consecutive_perfect"`
	MaxStreak          int `bson:"max_streak" json:"max_streak"`

	// Criterion 3: speed/fluency
	AvgResponseTimeMs      int `bson:"avg_response_time_ms" json:"avg_response_time_ms"`
	BaselineResponseTimeMs int `bson:"baseline_response_time_ms" json:"baseline_response_time_ms"`
	HesitationCount        int `bson:"hesitation_count" json:"hesitation_count"`

	// Criterion 4: format invariance
	FormatsTested []string `bson:"formats_tested" json:"formats_tested"`
	FormatsPassed []string `bson:"formats_passed" json:"formats_passed"`

	// Criterion 5: predicted recall
	PredictedRecall float64   `bson:"predicted_recall" json:"predicted_recall"`
	LastTestedAt    time.Time `bson:"last_tested_at,omitempty" json:"last_tested_at"`

	MasteredAt   *time.Time `bson:"mastered_at,omitempty" json:"mastered_at,omitempty"`
	NextReviewAt *time.Time `bson:"next_review_at,omitempty" json:"next_review_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
