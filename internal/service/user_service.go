package service

import (
	"context"

	"mastery-service/internal/models"
	"mastery-service/internal/repository"
)

type UserService struct {
	users  *repository.UserRepository
	states *repository.StateRepository
}

func NewUserService(users *repository.UserRepository, states *repository.StateRepository) *UserService {
	return &UserService{users: users, states: states}
}

func (s *UserService) CreateOrGet(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindOrCreateByEmail(ctx, email)
}

// UserProgress aggregates a user's lifetime learning picture.
type UserProgress struct {
	User        *models.User     `json:"user"`
	StateCounts map[string]int64 `json:"state_counts"`
}

func (s *UserService) Progress(ctx context.Context, userID string) (*UserProgress, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	counts, err := s.states.CountByState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserProgress{User: user, StateCounts: counts}, nil
}
