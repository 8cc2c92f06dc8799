package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mastery-service/internal/engine"
	"mastery-service/internal/models"
	"mastery-service/internal/repository"
	"mastery-service/internal/session"
)

var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrMaterialNotReady = errors.New("material not ready")
	ErrSessionNotFound  = errors.New("session not found")
)

type SessionService struct {
	sessions  *repository.SessionRepository
	materials *repository.MaterialRepository
	concepts  *repository.ConceptRepository
	users     *repository.UserRepository
	store     *repository.Store
	manager   *session.Manager
}

func NewSessionService(
	sessions *repository.SessionRepository,
	materials *repository.MaterialRepository,
	concepts *repository.ConceptRepository,
	users *repository.UserRepository,
	store *repository.Store,
	manager *session.Manager,
) *SessionService {
	return &SessionService{
		sessions:  sessions,
		materials: materials,
		concepts:  concepts,
		users:     users,
		store:     store,
		manager:   manager,
	}
}

// Start creates a session over a ready material and registers its live
// controller. The returned session ID is the websocket join key; the
// second return is the material's concept count.
func (s *SessionService) Start(ctx context.Context, userID, materialID string) (*models.StudySession, int, error) {
	material, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		return nil, 0, err
	}
	if material == nil {
		return nil, 0, ErrMaterialNotFound
	}
	if material.Status != models.MaterialReady {
		return nil, 0, fmt.Errorf("%w: status is %s", ErrMaterialNotReady, material.Status)
	}

	concepts, err := s.concepts.FindByMaterial(ctx, materialID)
	if err != nil {
		return nil, 0, err
	}
	if len(concepts) == 0 {
		return nil, 0, engine.ErrNoConcepts
	}

	sess := &models.StudySession{
		UserID:     userID,
		MaterialID: materialID,
		StartTime:  time.Now(),
		Status:     models.SessionActive,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, 0, err
	}

	ctrl, err := engine.NewController(sess, concepts, s.store, s.store, s.store, s.store)
	if err != nil {
		return nil, 0, err
	}
	s.manager.Put(sess.ID, ctrl)
	return sess, len(concepts), nil
}

// Entry returns the live controller entry for an active session.
func (s *SessionService) Entry(sessionID string) (*session.Entry, bool) {
	return s.manager.Get(sessionID)
}

// End finalizes an active session, flushing duration into the user's
// lifetime total and dropping the live controller.
func (s *SessionService) End(ctx context.Context, sessionID string) (*models.StudySession, error) {
	entry, ok := s.manager.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	var sess *models.StudySession
	err := entry.Do(func(ctrl *engine.Controller) error {
		ctrl.Close(ctx, models.SessionEnded)
		sess = ctrl.Session()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.manager.Remove(sessionID)

	if sess.DurationMinutes > 0 {
		if err := s.users.AddSessionMinutes(ctx, sess.UserID, sess.DurationMinutes); err != nil {
			return sess, err
		}
	}
	return sess, nil
}

// Stats reports session progress. For live sessions the controller's
// view is authoritative; finished ones are read back from storage.
func (s *SessionService) Stats(ctx context.Context, sessionID string) (*engine.SessionStats, error) {
	if entry, ok := s.manager.Get(sessionID); ok {
		var stats *engine.SessionStats
		err := entry.Do(func(ctrl *engine.Controller) error {
			mastered, err := ctrl.MasteredCount(ctx)
			if err != nil {
				return err
			}
			stats = ctrl.Stats(mastered)
			return nil
		})
		return stats, err
	}

	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	accuracy := 0.0
	if sess.TotalQuestions > 0 {
		accuracy = float64(sess.TotalCorrect) / float64(sess.TotalQuestions)
	}
	return &engine.SessionStats{
		DurationMinutes:  sess.DurationMinutes,
		TotalQuestions:   sess.TotalQuestions,
		TotalCorrect:     sess.TotalCorrect,
		Accuracy:         accuracy,
		ConceptsMastered: sess.ConceptsMasteredThisSession,
	}, nil
}
