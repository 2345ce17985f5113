package dto

import (
	"time"

	"coldopen/internal/model"
	"coldopen/internal/service"
	"coldopen/internal/session"
)

// GenerateRequestDTO is used for incoming full-pipeline requests. The
// extension ships the rendered page HTML; the backend never fetches LinkedIn
// itself.
type GenerateRequestDTO struct {
	LinkedInURL string `json:"linkedin_url" validate:"required,url"`
	HTML        string `json:"html" validate:"required"`
	Objective   string `json:"objective" validate:"omitempty,max=100"`
	Tone        string `json:"tone" validate:"omitempty,oneof=professional casual friendly direct"`
	Length      string `json:"length" validate:"omitempty,oneof=short medium long"`
}

// RegenerateRequestDTO is used for tone/length regeneration requests.
// Omitted fields keep the current draft's presets.
type RegenerateRequestDTO struct {
	Tone   string `json:"tone" validate:"omitempty,oneof=professional casual friendly direct"`
	Length string `json:"length" validate:"omitempty,oneof=short medium long"`
}

// PolishRequestDTO is used for incoming polish requests. Message is the text
// as it stands in the popup, manual edits included.
type PolishRequestDTO struct {
	Message     string `json:"message" validate:"required,max=5000"`
	Instruction string `json:"instruction" validate:"omitempty,max=500"`
}

type AnnotationDTO struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type TalkingPointDTO struct {
	Topic     string `json:"topic"`
	Detail    string `json:"detail"`
	Relevance string `json:"relevance"`
}

// AnalysisResponseDTO is returned in API responses for profile analyses.
type AnalysisResponseDTO struct {
	AnalysisID              string            `json:"analysis_id"`
	TalkingPoints           []TalkingPointDTO `json:"talking_points"`
	MutualInterests         []string          `json:"mutual_interests"`
	ConnectionOpportunities []string          `json:"connection_opportunities"`
	SuggestedApproach       string            `json:"suggested_approach"`
	CautionFlags            []string          `json:"caution_flags"`
}

// DraftResponseDTO is returned in API responses for message drafts.
type DraftResponseDTO struct {
	DraftID     string          `json:"draft_id"`
	Subject     string          `json:"subject,omitempty"`
	Message     string          `json:"message"`
	Annotations []AnnotationDTO `json:"annotations"`
	Tone        string          `json:"tone,omitempty"`
	Length      string          `json:"length,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TargetResponseDTO is returned in API responses for extracted targets.
type TargetResponseDTO struct {
	Name        string `json:"name"`
	JobTitle    string `json:"job_title,omitempty"`
	Company     string `json:"company,omitempty"`
	LinkedInURL string `json:"linkedin_url"`
}

// GenerateResponseDTO is the shared response for generate, regenerate and
// polish. Analysis and Target are omitted when the call had no pipeline
// artifacts behind it.
type GenerateResponseDTO struct {
	Draft            DraftResponseDTO     `json:"draft"`
	Analysis         *AnalysisResponseDTO `json:"analysis,omitempty"`
	Target           *TargetResponseDTO   `json:"target,omitempty"`
	CreditsRemaining int                  `json:"credits_remaining"`
}

// SessionResponseDTO mirrors the popup's view of the pipeline.
type SessionResponseDTO struct {
	State     string               `json:"state"`
	Loading   bool                 `json:"loading"`
	Objective string               `json:"objective,omitempty"`
	Target    *TargetResponseDTO   `json:"target,omitempty"`
	Analysis  *AnalysisResponseDTO `json:"analysis,omitempty"`
	Draft     *DraftResponseDTO    `json:"draft,omitempty"`
	LastError string               `json:"last_error,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func AnnotationsFromModel(in []model.Annotation) []AnnotationDTO {
	out := make([]AnnotationDTO, 0, len(in))
	for _, a := range in {
		out = append(out, AnnotationDTO{Text: a.Text, Source: string(a.Source)})
	}
	return out
}

func DraftFromModel(d *model.MessageDraft) DraftResponseDTO {
	return DraftResponseDTO{
		DraftID:     d.ID,
		Subject:     d.Subject,
		Message:     d.Body,
		Annotations: AnnotationsFromModel(d.Annotations),
		Tone:        string(d.Tone),
		Length:      string(d.Length),
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
	}
}

func AnalysisFromModel(a *model.ProfileAnalysis) AnalysisResponseDTO {
	points := make([]TalkingPointDTO, 0, len(a.TalkingPoints))
	for _, tp := range a.TalkingPoints {
		points = append(points, TalkingPointDTO{Topic: tp.Topic, Detail: tp.Detail, Relevance: string(tp.Relevance)})
	}
	return AnalysisResponseDTO{
		AnalysisID:              a.ID,
		TalkingPoints:           points,
		MutualInterests:         a.MutualInterests,
		ConnectionOpportunities: a.ConnectionOpportunities,
		SuggestedApproach:       a.SuggestedApproach,
		CautionFlags:            a.CautionFlags,
	}
}

func TargetFromModel(tp *model.TargetProfile) TargetResponseDTO {
	return TargetResponseDTO{
		Name:        tp.Name,
		JobTitle:    tp.JobTitle,
		Company:     tp.Company,
		LinkedInURL: tp.LinkedInURL,
	}
}

// GenerateResponseFromResult maps a pipeline result onto the wire shape.
func GenerateResponseFromResult(res *service.GenerateResult) GenerateResponseDTO {
	out := GenerateResponseDTO{
		Draft:            DraftFromModel(res.Draft),
		CreditsRemaining: res.CreditsRemaining,
	}
	if res.Analysis != nil {
		analysis := AnalysisFromModel(res.Analysis)
		out.Analysis = &analysis
	}
	if res.Target != nil {
		target := TargetFromModel(res.Target)
		out.Target = &target
	}
	return out
}

// SessionFromSnapshot maps a session snapshot onto the wire shape.
func SessionFromSnapshot(s session.Session) SessionResponseDTO {
	out := SessionResponseDTO{
		State:     string(s.State),
		Loading:   s.State.Loading(),
		Objective: s.Objective,
		LastError: s.LastError,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Target != nil {
		target := TargetFromModel(s.Target)
		out.Target = &target
	}
	if s.Analysis != nil {
		analysis := AnalysisFromModel(s.Analysis)
		out.Analysis = &analysis
	}
	if s.Draft != nil {
		draft := DraftFromModel(s.Draft)
		out.Draft = &draft
	}
	return out
}
