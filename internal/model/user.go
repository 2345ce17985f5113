package model

import "time"

// Plan is the subscription tier gating credit allowance and history retention.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// ResetCredits returns the credit balance a reset restores for the plan.
func (p Plan) ResetCredits() int {
	if p == PlanPro {
		return 500
	}
	return 5
}

// ResetInterval returns the elapsed time after which credits refresh.
// Resets are elapsed-time based, not anchored to a billing date: each reset
// stamps last_credit_reset with the current time, so the instant drifts.
func (p Plan) ResetInterval() time.Duration {
	if p == PlanPro {
		return 30 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// HistoryRetention returns how long an outreach record stays visible and
// whether it expires at all. Paid plans keep history indefinitely.
func (p Plan) HistoryRetention() (time.Duration, bool) {
	if p == PlanPro {
		return 0, false
	}
	return 5 * 24 * time.Hour, true
}

// User is the account row: identity from the token verifier, the outreach
// profile the user fills in under settings, and the credit ledger. One row
// per user; the ledger is deliberately not a separate table.
type User struct {
	UserID string `db:"user_id" json:"user_id"`
	Email  string `db:"email" json:"email"`
	Name   string `db:"name" json:"name"`

	// Outreach profile, referenced by every generated message. The role
	// column is current_position because CURRENT_ROLE is reserved SQL.
	FullName         string `db:"full_name" json:"full_name"`
	CurrentRole      string `db:"current_position" json:"current_role"`
	CurrentCompany   string `db:"current_company" json:"current_company"`
	Background       string `db:"background" json:"background"`
	Goals            string `db:"goals" json:"goals"`
	ValueProposition string `db:"value_proposition" json:"value_proposition"`

	// Credit ledger.
	Credits         int       `db:"credits" json:"credits"`
	Plan            Plan      `db:"plan" json:"plan"`
	LastCreditReset time.Time `db:"last_credit_reset" json:"last_credit_reset"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NextCreditReset returns when the current allowance refreshes.
func (u *User) NextCreditReset() time.Time {
	return u.LastCreditReset.Add(u.Plan.ResetInterval())
}

// ProfileEmpty reports whether the user has never filled in their outreach
// profile. An empty profile sends the popup to the setup screen.
func (u *User) ProfileEmpty() bool {
	return u.FullName == "" && u.CurrentRole == "" && u.CurrentCompany == "" &&
		u.Background == "" && u.Goals == "" && u.ValueProposition == ""
}

// ProfileComplete reports whether all profile fields are present. Generation
// proceeds on a partial profile, just with degraded output.
func (u *User) ProfileComplete() bool {
	return u.FullName != "" && u.CurrentRole != "" && u.CurrentCompany != "" &&
		u.Background != "" && u.Goals != "" && u.ValueProposition != ""
}
