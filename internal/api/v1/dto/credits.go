package dto

import (
	"time"

	"coldopen/internal/model"
)

// CreditStatusResponseDTO is returned by the credit status endpoint. The
// popup renders the balance and the countdown to the next refresh from it.
type CreditStatusResponseDTO struct {
	Credits   int       `json:"credits"`
	Plan      string    `json:"plan"`
	LastReset time.Time `json:"last_credit_reset"`
	NextReset time.Time `json:"next_credit_reset"`
}

func CreditStatusFromModel(u *model.User) CreditStatusResponseDTO {
	return CreditStatusResponseDTO{
		Credits:   u.Credits,
		Plan:      string(u.Plan),
		LastReset: u.LastCreditReset,
		NextReset: u.NextCreditReset(),
	}
}
