package engine

import (
	"context"
	"time"

	"mastery-service/internal/models"
)

// ConceptStateStore persists per-user per-concept learning state and the
// raw answer event stream the scheduler reads.
type ConceptStateStore interface {
	GetOrCreateState(ctx context.Context, userID, conceptID string) (*models.UserConceptState, error)
	SaveState(ctx context.Context, state *models.UserConceptState) error
	AppendEvent(ctx context.Context, event *models.ResponseEvent) error
	RecentSessionEvents(ctx context.Context, sessionID string, since time.Time) ([]models.ResponseEvent, error)
	CorrectAnswerTimes(ctx context.Context, userID, conceptID string) ([]time.Time, error)
	StatesForUser(ctx context.Context, userID string, conceptIDs []string) (map[string]*models.UserConceptState, error)
	CountMastered(ctx context.Context, userID string, conceptIDs []string) (int, error)
}

// QuestionBank serves pre-generated questions by concept and mode.
type QuestionBank interface {
	QuestionsForConceptMode(ctx context.Context, conceptID string, mode Mode) ([]models.Question, error)
	QuestionsForConcept(ctx context.Context, conceptID string) ([]models.Question, error)
}

// SessionStore persists running session counters.
type SessionStore interface {
	SaveCounters(ctx context.Context, session *models.StudySession) error
}

// UserStore tracks lifetime user aggregates.
type UserStore interface {
	IncrementMastered(ctx context.Context, userID string) error
}
