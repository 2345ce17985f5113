package service

import (
	"context"
	"errors"

	"coldopen/internal/model"
	"coldopen/internal/repository"

	"github.com/rs/zerolog"
)

var ErrUserNotFound = errors.New("user not found")

// UserService manages accounts and the outreach profile edited under
// settings.
type UserService interface {
	// SignIn upserts the account row from verified token claims. Safe to
	// call on every popup open.
	SignIn(ctx context.Context, id, email, name string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	// UpdateProfile replaces the outreach-profile fields and returns the
	// stored user.
	UpdateProfile(ctx context.Context, u *model.User) (*model.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	userLogger zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		userLogger: logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) SignIn(ctx context.Context, id, email, name string) (*model.User, error) {
	u, err := s.userRepo.UpsertUser(ctx, id, email, name)
	if err != nil {
		s.userLogger.Error().Err(err).Str("user_id", id).Msg("Failed to upsert user")
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		s.userLogger.Error().Err(err).Str("user_id", id).Msg("Failed to get user")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, u *model.User) (*model.User, error) {
	existing, err := s.Get(ctx, u.UserID)
	if err != nil {
		return nil, err
	}

	existing.FullName = u.FullName
	existing.CurrentRole = u.CurrentRole
	existing.CurrentCompany = u.CurrentCompany
	existing.Background = u.Background
	existing.Goals = u.Goals
	existing.ValueProposition = u.ValueProposition

	if err := s.userRepo.UpdateProfile(ctx, existing); err != nil {
		s.userLogger.Error().Err(err).Str("user_id", u.UserID).Msg("Failed to update profile")
		return nil, err
	}
	return existing, nil
}
