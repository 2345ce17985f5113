package service

import (
	"context"
	"errors"

	"coldopen/internal/chrono"
	"coldopen/internal/model"
	"coldopen/internal/repository"

	"github.com/rs/zerolog"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

// CreditService is the credit ledger. Resets are elapsed-time based per
// plan; deductions are atomic conditional updates at the storage layer.
type CreditService interface {
	// CheckAndReset refreshes the balance if the plan's interval has fully
	// elapsed since the last reset, and returns the current user row.
	// Idempotent: a reset stamps last_credit_reset to now, so repeated calls
	// within one window change nothing.
	CheckAndReset(ctx context.Context, userID string) (*model.User, error)
	// Deduct runs CheckAndReset first, then atomically takes amount from
	// the balance. ErrInsufficientCredits when the post-reset balance is
	// short; the balance is never driven below zero.
	Deduct(ctx context.Context, userID string, amount int) (*model.User, error)
	// SweepFree resets every free-plan user whose reset is due in one
	// batched statement, for users who never trigger the per-request check.
	// Returns the number of users reset.
	SweepFree(ctx context.Context) (int64, error)
}

type creditService struct {
	userRepo     repository.UserRepository
	creditRepo   repository.CreditRepository
	clock        chrono.TimeAPI
	creditLogger zerolog.Logger
}

func NewCreditService(userRepo repository.UserRepository, creditRepo repository.CreditRepository, clock chrono.TimeAPI, logger zerolog.Logger) CreditService {
	return &creditService{
		userRepo:     userRepo,
		creditRepo:   creditRepo,
		clock:        clock,
		creditLogger: logger.With().Str("service", "CreditService").Logger(),
	}
}

func (s *creditService) CheckAndReset(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		s.creditLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for credit check")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	now := s.clock.Now()
	interval := u.Plan.ResetInterval()
	if now.Sub(u.LastCreditReset) < interval {
		return u, nil
	}

	reset, err := s.creditRepo.ResetIfDue(ctx, userID, u.Plan.ResetCredits(), now.Add(-interval), now)
	if err != nil {
		s.creditLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to reset credits")
		return nil, err
	}
	if !reset {
		// The sweep or a concurrent request reset first; reread the row.
		u, err = s.userRepo.FindUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, ErrUserNotFound
		}
		return u, nil
	}

	u.Credits = u.Plan.ResetCredits()
	u.LastCreditReset = now
	s.creditLogger.Info().
		Str("user_id", userID).
		Str("plan", string(u.Plan)).
		Int("credits", u.Credits).
		Msg("Credit balance reset")
	return u, nil
}

func (s *creditService) Deduct(ctx context.Context, userID string, amount int) (*model.User, error) {
	u, err := s.CheckAndReset(ctx, userID)
	if err != nil {
		return nil, err
	}

	remaining, err := s.creditRepo.Deduct(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			s.creditLogger.Info().
				Str("user_id", userID).
				Int("credits", u.Credits).
				Int("amount", amount).
				Msg("Deduction refused, balance too low")
			return nil, ErrInsufficientCredits
		}
		s.creditLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to deduct credits")
		return nil, err
	}

	u.Credits = remaining
	return u, nil
}

func (s *creditService) SweepFree(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	interval := model.PlanFree.ResetInterval()

	n, err := s.creditRepo.SweepFreeResets(ctx, model.PlanFree.ResetCredits(), now.Add(-interval), now)
	if err != nil {
		s.creditLogger.Error().Err(err).Msg("Failed to sweep free-plan credit resets")
		return 0, err
	}
	s.creditLogger.Info().Int64("users_reset", n).Msg("Swept free-plan credit resets")
	return n, nil
}
