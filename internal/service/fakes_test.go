package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"coldopen/internal/model"
	"coldopen/internal/repository"
)

// fakeStore backs the repository interfaces with a map, mirroring the
// conditional-update semantics of the SQL layer.
type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	history []model.OutreachRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*model.User)}
}

func (f *fakeStore) FindUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpsertUser(_ context.Context, id, email, name string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		u = &model.User{
			UserID:          id,
			Credits:         model.PlanFree.ResetCredits(),
			Plan:            model.PlanFree,
			LastCreditReset: time.Now(),
			CreatedAt:       time.Now(),
		}
		f.users[id] = u
	}
	u.Email = email
	u.Name = name
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, in *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[in.UserID]
	if !ok {
		return errors.New("no row for user")
	}
	u.FullName = in.FullName
	u.CurrentRole = in.CurrentRole
	u.CurrentCompany = in.CurrentCompany
	u.Background = in.Background
	u.Goals = in.Goals
	u.ValueProposition = in.ValueProposition
	u.UpdatedAt = time.Now()
	in.UpdatedAt = u.UpdatedAt
	return nil
}

func (f *fakeStore) ResetIfDue(_ context.Context, userID string, credits int, cutoff, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.LastCreditReset.After(cutoff) {
		return false, nil
	}
	u.Credits = credits
	u.LastCreditReset = now
	return true, nil
}

func (f *fakeStore) Deduct(_ context.Context, userID string, amount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.Credits < amount {
		return 0, repository.ErrInsufficientCredits
	}
	u.Credits -= amount
	return u.Credits, nil
}

func (f *fakeStore) SweepFreeResets(_ context.Context, credits int, cutoff, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.Plan != model.PlanFree || u.LastCreditReset.After(cutoff) {
			continue
		}
		u.Credits = credits
		u.LastCreditReset = now
		n++
	}
	return n, nil
}

func (f *fakeStore) Append(_ context.Context, rec *model.OutreachRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, *rec)
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]model.OutreachRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.OutreachRecord
	for _, rec := range f.history {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	// Newest contact first, like the SQL ORDER BY.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ContactedAt.After(out[i].ContactedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}
