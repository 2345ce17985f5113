package repository

import (
	"context"
	"errors"
	"fmt"

	"coldopen/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `user_id, email, name, full_name, current_position, current_company,
       background, goals, value_proposition, credits, plan, last_credit_reset,
       created_at, updated_at`

// UserRepository stores accounts and their outreach profiles.
type UserRepository interface {
	// FindUser returns (nil, nil) when no row exists.
	FindUser(ctx context.Context, id string) (*model.User, error)
	// UpsertUser inserts the identity row on first sign-in and refreshes
	// email and name on later ones. Returns the stored row, so a fresh
	// account comes back with its default plan and credit balance.
	UpsertUser(ctx context.Context, id, email, name string) (*model.User, error)
	// UpdateProfile replaces the outreach-profile fields.
	UpdateProfile(ctx context.Context, u *model.User) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) FindUser(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) UpsertUser(ctx context.Context, id, email, name string) (*model.User, error) {
	q := `
        INSERT INTO users (user_id, email, name)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE
            SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = NOW()
        RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, q, id, email, name))
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	const q = `
        UPDATE users
        SET full_name = $2, current_position = $3, current_company = $4,
            background = $5, goals = $6, value_proposition = $7, updated_at = NOW()
        WHERE user_id = $1
        RETURNING updated_at
    `
	err := r.pool.QueryRow(ctx, q,
		u.UserID,
		u.FullName,
		u.CurrentRole,
		u.CurrentCompany,
		u.Background,
		u.Goals,
		u.ValueProposition,
	).Scan(&u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update profile for user %s: %w", u.UserID, err)
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.UserID,
		&u.Email,
		&u.Name,
		&u.FullName,
		&u.CurrentRole,
		&u.CurrentCompany,
		&u.Background,
		&u.Goals,
		&u.ValueProposition,
		&u.Credits,
		&u.Plan,
		&u.LastCreditReset,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
