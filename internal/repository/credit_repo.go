package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInsufficientCredits is returned when a deduction would take the balance
// below zero.
var ErrInsufficientCredits = errors.New("insufficient_credits")

// CreditRepository owns the conditional credit updates. Reset, deduct, and
// the sweep are each a single conditional statement, so concurrent callers
// converge on the same state without explicit locks: whichever statement
// lands first wins and the loser's condition no longer holds.
type CreditRepository interface {
	// ResetIfDue restores the balance and stamps last_credit_reset only if
	// the current stamp is at or before the cutoff. Reports whether a reset
	// happened.
	ResetIfDue(ctx context.Context, userID string, credits int, cutoff, now time.Time) (bool, error)
	// Deduct atomically subtracts amount if the balance covers it, returning
	// the remaining balance. ErrInsufficientCredits otherwise.
	Deduct(ctx context.Context, userID string, amount int) (int, error)
	// SweepFreeResets restores every free-plan user whose stamp is at or
	// before the cutoff, in one statement. Returns the number of rows reset.
	SweepFreeResets(ctx context.Context, credits int, cutoff, now time.Time) (int64, error)
}

type creditRepo struct {
	pool *pgxpool.Pool
}

func NewCreditRepo(pool *pgxpool.Pool) CreditRepository {
	return &creditRepo{pool: pool}
}

func (r *creditRepo) ResetIfDue(ctx context.Context, userID string, credits int, cutoff, now time.Time) (bool, error) {
	const q = `
        UPDATE users
        SET credits = $2, last_credit_reset = $3, updated_at = $3
        WHERE user_id = $1 AND last_credit_reset <= $4
    `
	tag, err := r.pool.Exec(ctx, q, userID, credits, now, cutoff)
	if err != nil {
		return false, fmt.Errorf("resetting credits for user %s: %w", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *creditRepo) Deduct(ctx context.Context, userID string, amount int) (int, error) {
	const q = `
        UPDATE users
        SET credits = credits - $2, updated_at = NOW()
        WHERE user_id = $1 AND credits >= $2
        RETURNING credits
    `
	var remaining int
	err := r.pool.QueryRow(ctx, q, userID, amount).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInsufficientCredits
		}
		return 0, fmt.Errorf("deducting %d credits for user %s: %w", amount, userID, err)
	}
	return remaining, nil
}

func (r *creditRepo) SweepFreeResets(ctx context.Context, credits int, cutoff, now time.Time) (int64, error) {
	const q = `
        UPDATE users
        SET credits = $1, last_credit_reset = $2, updated_at = $2
        WHERE plan = 'free' AND last_credit_reset <= $3
    `
	tag, err := r.pool.Exec(ctx, q, credits, now, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping free-plan credit resets: %w", err)
	}
	return tag.RowsAffected(), nil
}
