package repository

import (
	"context"
	"time"

	"mastery-service/internal/engine"
	"mastery-service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Store bundles the repositories behind the engine's storage interfaces
// so the session controller never touches Mongo directly.
type Store struct {
	States    *StateRepository
	Responses *ResponseRepository
	Questions *QuestionRepository
	Sessions  *SessionRepository
	Users     *UserRepository
}

func NewStore(states *StateRepository, responses *ResponseRepository, questions *QuestionRepository, sessions *SessionRepository, users *UserRepository) *Store {
	return &Store{
		States:    states,
		Responses: responses,
		Questions: questions,
		Sessions:  sessions,
		Users:     users,
	}
}

func (s *Store) GetOrCreateState(ctx context.Context, userID, conceptID string) (*models.UserConceptState, error) {
	state, err := s.States.FindByUserConcept(ctx, userID, conceptID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}
	now := time.Now()
	state = &models.UserConceptState{
		ID:        uuid.NewString(),
		UserID:    userID,
		ConceptID: conceptID,
		State:     models.StateUntouched,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.States.Upsert(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Store) SaveState(ctx context.Context, state *models.UserConceptState) error {
	return s.States.Upsert(ctx, state)
}

func (s *Store) AppendEvent(ctx context.Context, event *models.ResponseEvent) error {
	return s.Responses.Create(ctx, event)
}

func (s *Store) RecentSessionEvents(ctx context.Context, sessionID string, since time.Time) ([]models.ResponseEvent, error) {
	return s.Responses.FindSessionSince(ctx, sessionID, since)
}

func (s *Store) CorrectAnswerTimes(ctx context.Context, userID, conceptID string) ([]time.Time, error) {
	return s.Responses.CorrectTimes(ctx, userID, conceptID)
}

func (s *Store) StatesForUser(ctx context.Context, userID string, conceptIDs []string) (map[string]*models.UserConceptState, error) {
	states, err := s.States.FindByUser(ctx, userID, conceptIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.UserConceptState, len(states))
	for i := range states {
		out[states[i].ConceptID] = &states[i]
	}
	return out, nil
}

func (s *Store) CountMastered(ctx context.Context, userID string, conceptIDs []string) (int, error) {
	n, err := s.States.CountMastered(ctx, userID, conceptIDs)
	return int(n), err
}

func (s *Store) QuestionsForConceptMode(ctx context.Context, conceptID string, mode engine.Mode) ([]models.Question, error) {
	return s.Questions.FindByConceptMode(ctx, conceptID, string(mode))
}

func (s *Store) QuestionsForConcept(ctx context.Context, conceptID string) ([]models.Question, error) {
	return s.Questions.FindByConcept(ctx, conceptID)
}

func (s *Store) SaveCounters(ctx context.Context, session *models.StudySession) error {
	update := bson.M{
		"total_questions":                session.TotalQuestions,
		"total_correct":                  session.TotalCorrect,
		"concepts_mastered_this_session": session.ConceptsMasteredThisSession,
		"duration_minutes":               session.DurationMinutes,
		"status":                         session.Status,
	}
	if !session.EndTime.IsZero() {
		update["end_time"] = session.EndTime
	}
	return s.Sessions.Update(ctx, session.ID, update)
}

func (s *Store) IncrementMastered(ctx context.Context, userID string) error {
	return s.Users.IncrementMastered(ctx, userID)
}
