package dto

import (
	"time"

	"coldopen/internal/model"
)

// HistoryCreateDTO is used for incoming contact-recorded requests, sent when
// the user copies a message to the clipboard.
type HistoryCreateDTO struct {
	TargetName        string `json:"target_name" validate:"required,max=200"`
	TargetLinkedInURL string `json:"target_linkedin_url" validate:"required,url"`
}

// HistoryRecordResponseDTO is returned in API responses for outreach records.
type HistoryRecordResponseDTO struct {
	ID                string     `json:"id"`
	TargetName        string     `json:"target_name"`
	TargetLinkedInURL string     `json:"target_linkedin_url"`
	ContactedAt       time.Time  `json:"contacted_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

// DuplicateCheckResponseDTO answers "have I contacted this person already".
type DuplicateCheckResponseDTO struct {
	Duplicate bool                      `json:"duplicate"`
	Record    *HistoryRecordResponseDTO `json:"record,omitempty"`
}

func HistoryRecordFromModel(rec *model.OutreachRecord) HistoryRecordResponseDTO {
	return HistoryRecordResponseDTO{
		ID:                rec.ID,
		TargetName:        rec.TargetName,
		TargetLinkedInURL: rec.TargetLinkedInURL,
		ContactedAt:       rec.ContactedAt,
		ExpiresAt:         rec.ExpiresAt,
	}
}

func HistoryRecordsFromModel(recs []model.OutreachRecord) []HistoryRecordResponseDTO {
	out := make([]HistoryRecordResponseDTO, 0, len(recs))
	for i := range recs {
		out = append(out, HistoryRecordFromModel(&recs[i]))
	}
	return out
}
