package dto

import (
	"time"

	"coldopen/internal/model"
)

// ProfileUpdateDTO is used for incoming settings updates. The popup submits
// the whole form, so this is a full replace, not a patch.
type ProfileUpdateDTO struct {
	FullName         string `json:"full_name" validate:"omitempty,max=100"`
	CurrentRole      string `json:"current_role" validate:"omitempty,max=150"`
	CurrentCompany   string `json:"current_company" validate:"omitempty,max=150"`
	Background       string `json:"background" validate:"omitempty,max=2000"`
	Goals            string `json:"goals" validate:"omitempty,max=2000"`
	ValueProposition string `json:"value_proposition" validate:"omitempty,max=2000"`
}

// ProfileResponseDTO is returned in API responses for the outreach profile.
type ProfileResponseDTO struct {
	FullName         string    `json:"full_name"`
	CurrentRole      string    `json:"current_role"`
	CurrentCompany   string    `json:"current_company"`
	Background       string    `json:"background"`
	Goals            string    `json:"goals"`
	ValueProposition string    `json:"value_proposition"`
	ProfileComplete  bool      `json:"profile_complete"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProfileFromModel maps the profile slice of the domain user.
func ProfileFromModel(u *model.User) ProfileResponseDTO {
	return ProfileResponseDTO{
		FullName:         u.FullName,
		CurrentRole:      u.CurrentRole,
		CurrentCompany:   u.CurrentCompany,
		Background:       u.Background,
		Goals:            u.Goals,
		ValueProposition: u.ValueProposition,
		ProfileComplete:  u.ProfileComplete(),
		UpdatedAt:        u.UpdatedAt,
	}
}
