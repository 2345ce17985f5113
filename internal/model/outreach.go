package model

import "time"

// Tone and Length are the stylistic presets the popup exposes. Unknown values
// are rejected at the DTO boundary, so code past the handler can trust them.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneDirect       Tone = "direct"
)

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Relevance grades how useful a talking point is for the opening message.
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
	RelevanceLow    Relevance = "low"
)

// TargetProfile is what the extractor pulled out of one rendered profile
// page. It lives for the session only; nothing here is persisted unless the
// user records the contact in history.
type TargetProfile struct {
	ID             string `json:"id"`
	LinkedInURL    string `json:"linkedin_url"`
	Name           string `json:"name"`
	JobTitle       string `json:"job_title,omitempty"`
	Company        string `json:"company,omitempty"`
	RawProfileText string `json:"raw_profile_text"`
}

// TalkingPoint is one profile fact the analysis judged worth referencing.
type TalkingPoint struct {
	Topic     string    `json:"topic"`
	Detail    string    `json:"detail"`
	Relevance Relevance `json:"relevance"`
}

// ProfileAnalysis is the structured result of the analysis call. Immutable
// once created; regeneration reuses it rather than paying for a second call.
type ProfileAnalysis struct {
	ID                      string         `json:"id"`
	TargetProfileID         string         `json:"target_profile_id"`
	UserProfileID           string         `json:"user_profile_id"`
	TalkingPoints           []TalkingPoint `json:"talking_points"`
	MutualInterests         []string       `json:"mutual_interests"`
	ConnectionOpportunities []string       `json:"connection_opportunities"`
	SuggestedApproach       string         `json:"suggested_approach"`
	CautionFlags            []string       `json:"caution_flags"`
	ModelUsed               string         `json:"model_used"`
	TokensUsed              int            `json:"tokens_used"`
}

// AnnotationSource says which side of the conversation a message fragment
// was derived from, for UI highlighting.
type AnnotationSource string

const (
	SourceTargetProfile AnnotationSource = "target_profile"
	SourceUserProfile   AnnotationSource = "user_profile"
	SourceGenerated     AnnotationSource = "generated"
)

// Annotation maps a substring of the draft body to its source.
type Annotation struct {
	Text   string           `json:"text"`
	Source AnnotationSource `json:"source"`
}

// MessageDraft is one version of the outreach message. Tone/length changes
// and polish produce a new version; drafts are superseded, never deleted.
type MessageDraft struct {
	ID              string       `json:"id"`
	TargetProfileID string       `json:"target_profile_id"`
	AnalysisID      string       `json:"analysis_id"`
	Subject         string       `json:"subject,omitempty"`
	Body            string       `json:"body"`
	Annotations     []Annotation `json:"annotations"`
	Tone            Tone         `json:"tone"`
	Length          Length       `json:"length"`
	Version         int          `json:"version"`
	ModelUsed       string       `json:"model_used"`
	TokensUsed      int          `json:"tokens_used"`
	CreatedAt       time.Time    `json:"created_at"`
}

// OutreachRecord is an append-only note that the user contacted a target.
// ExpiresAt is nil for paid plans (no expiry) and contacted_at + 5 days
// otherwise. Expired records are filtered out of lookups, never deleted.
type OutreachRecord struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"user_id"`
	TargetName        string     `db:"target_name" json:"target_name"`
	TargetLinkedInURL string     `db:"target_linkedin_url" json:"target_linkedin_url"`
	ContactedAt       time.Time  `db:"contacted_at" json:"contacted_at"`
	ExpiresAt         *time.Time `db:"expires_at" json:"expires_at"`
}

// Expired reports whether the record has aged out at the given instant.
func (r OutreachRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}
