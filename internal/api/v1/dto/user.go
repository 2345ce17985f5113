package dto

import (
	"time"

	"coldopen/internal/model"
)

// UserResponseDTO is returned in API responses for the account itself.
type UserResponseDTO struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`

	FullName         string `json:"full_name"`
	CurrentRole      string `json:"current_role"`
	CurrentCompany   string `json:"current_company"`
	Background       string `json:"background"`
	Goals            string `json:"goals"`
	ValueProposition string `json:"value_proposition"`
	ProfileComplete  bool   `json:"profile_complete"`

	Credits   int       `json:"credits"`
	Plan      string    `json:"plan"`
	NextReset time.Time `json:"next_credit_reset"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromModel maps the domain user onto the response shape.
func UserFromModel(u *model.User) UserResponseDTO {
	return UserResponseDTO{
		UserID:           u.UserID,
		Email:            u.Email,
		Name:             u.Name,
		FullName:         u.FullName,
		CurrentRole:      u.CurrentRole,
		CurrentCompany:   u.CurrentCompany,
		Background:       u.Background,
		Goals:            u.Goals,
		ValueProposition: u.ValueProposition,
		ProfileComplete:  u.ProfileComplete(),
		Credits:          u.Credits,
		Plan:             string(u.Plan),
		NextReset:        u.NextCreditReset(),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
