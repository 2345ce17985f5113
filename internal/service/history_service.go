package service

import (
	"context"
	"sort"
	"strings"

	"coldopen/internal/chrono"
	"coldopen/internal/linkedin"
	"coldopen/internal/model"
	"coldopen/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// The pure history operations below work over a full record list in memory.
// At hundreds of records per user there is nothing to index.

// FindDuplicate returns the first unexpired record pointing at the same
// profile as rawURL, or nil. URLs on both sides are canonicalized before
// comparison, so query strings, fragments, and trailing slashes don't hide
// a duplicate.
func FindDuplicate(rawURL string, records []model.OutreachRecord, now chrono.TimeAPI) *model.OutreachRecord {
	t := now.Now()
	for i := range records {
		if records[i].Expired(t) {
			continue
		}
		if linkedin.SameProfile(rawURL, records[i].TargetLinkedInURL) {
			return &records[i]
		}
	}
	return nil
}

// SortByContactedAt orders records newest contact first, in place.
func SortByContactedAt(records []model.OutreachRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ContactedAt.After(records[j].ContactedAt)
	})
}

// SearchByName returns records whose target name contains query,
// case-insensitively. An empty query returns the input unchanged.
func SearchByName(query string, records []model.OutreachRecord) []model.OutreachRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}
	var out []model.OutreachRecord
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.TargetName), query) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterExpired drops records past their expiry. Expired records stay in
// storage; they just stop being visible.
func FilterExpired(records []model.OutreachRecord, now chrono.TimeAPI) []model.OutreachRecord {
	t := now.Now()
	var out []model.OutreachRecord
	for _, rec := range records {
		if !rec.Expired(t) {
			out = append(out, rec)
		}
	}
	return out
}

// HistoryService tracks who the user has already contacted.
type HistoryService interface {
	// Record appends a contact note. Free-plan records expire five days
	// out; paid records never do.
	Record(ctx context.Context, userID, targetName, targetURL string) (*model.OutreachRecord, error)
	// List returns the user's live records newest first, optionally
	// narrowed by a case-insensitive name search.
	List(ctx context.Context, userID, query string) ([]model.OutreachRecord, error)
	// CheckDuplicate returns the live record already covering the URL, or
	// nil when the target is fresh.
	CheckDuplicate(ctx context.Context, userID, rawURL string) (*model.OutreachRecord, error)
}

type historyService struct {
	userRepo      repository.UserRepository
	historyRepo   repository.HistoryRepository
	clock         chrono.TimeAPI
	historyLogger zerolog.Logger
}

func NewHistoryService(userRepo repository.UserRepository, historyRepo repository.HistoryRepository, clock chrono.TimeAPI, logger zerolog.Logger) HistoryService {
	return &historyService{
		userRepo:      userRepo,
		historyRepo:   historyRepo,
		clock:         clock,
		historyLogger: logger.With().Str("service", "HistoryService").Logger(),
	}
}

func (s *historyService) Record(ctx context.Context, userID, targetName, targetURL string) (*model.OutreachRecord, error) {
	u, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		s.historyLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for history record")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	now := s.clock.Now()
	rec := &model.OutreachRecord{
		ID:                uuid.NewString(),
		UserID:            userID,
		TargetName:        targetName,
		TargetLinkedInURL: linkedin.NormalizeProfileURL(targetURL),
		ContactedAt:       now,
	}
	if retention, expires := u.Plan.HistoryRetention(); expires {
		expiresAt := now.Add(retention)
		rec.ExpiresAt = &expiresAt
	}

	if err := s.historyRepo.Append(ctx, rec); err != nil {
		s.historyLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to append outreach record")
		return nil, err
	}
	return rec, nil
}

func (s *historyService) List(ctx context.Context, userID, query string) ([]model.OutreachRecord, error) {
	records, err := s.historyRepo.ListByUser(ctx, userID)
	if err != nil {
		s.historyLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to list outreach history")
		return nil, err
	}

	records = FilterExpired(records, s.clock)
	records = SearchByName(query, records)
	SortByContactedAt(records)
	return records, nil
}

func (s *historyService) CheckDuplicate(ctx context.Context, userID, rawURL string) (*model.OutreachRecord, error) {
	records, err := s.historyRepo.ListByUser(ctx, userID)
	if err != nil {
		s.historyLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to load history for duplicate check")
		return nil, err
	}
	return FindDuplicate(rawURL, records, s.clock), nil
}
