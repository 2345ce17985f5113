package repository

import (
	"context"
	"fmt"

	"coldopen/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository is the append-only store of outreach records. Expired
// records are filtered by the service layer, never deleted here.
type HistoryRepository interface {
	Append(ctx context.Context, rec *model.OutreachRecord) error
	// ListByUser returns all records newest-contact first, expired included.
	ListByUser(ctx context.Context, userID string) ([]model.OutreachRecord, error)
}

type historyRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepo{pool: pool}
}

func (r *historyRepo) Append(ctx context.Context, rec *model.OutreachRecord) error {
	const q = `
        INSERT INTO outreach_history (id, user_id, target_name, target_linkedin_url, contacted_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.pool.Exec(ctx, q,
		rec.ID,
		rec.UserID,
		rec.TargetName,
		rec.TargetLinkedInURL,
		rec.ContactedAt,
		rec.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("appending outreach record for user %s: %w", rec.UserID, err)
	}
	return nil
}

func (r *historyRepo) ListByUser(ctx context.Context, userID string) ([]model.OutreachRecord, error) {
	const q = `
        SELECT id, user_id, target_name, target_linkedin_url, contacted_at, expires_at
        FROM outreach_history
        WHERE user_id = $1
        ORDER BY contacted_at DESC
    `
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("listing outreach history for user %s: %w", userID, err)
	}
	defer rows.Close()

	var records []model.OutreachRecord
	for rows.Next() {
		var rec model.OutreachRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.TargetName,
			&rec.TargetLinkedInURL,
			&rec.ContactedAt,
			&rec.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("scanning outreach record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outreach history: %w", err)
	}
	return records, nil
}
