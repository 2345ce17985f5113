package service

import (
	"context"
	"errors"

	"coldopen/internal/chrono"
	"coldopen/internal/extractor"
	"coldopen/internal/llm"
	"coldopen/internal/model"
	"coldopen/internal/prompt"
	"coldopen/internal/repository"
	"coldopen/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrPipelineBusy         = errors.New("a generation is already running")
	ErrProfileNotConfigured = errors.New("user profile not configured")
	ErrNoActiveMessage      = errors.New("no active message in session")
)

const (
	analysisTemperature   = 0.5
	generationTemperature = 0.8
	polishTemperature     = 0.4

	// User-facing strings stored on the session when a stage fails. The
	// provider's own error text never reaches the user.
	failMsgUnreadable = "Could not read the profile page. Open a LinkedIn profile and let it finish loading."
	failMsgGenerate   = "Failed to generate message. Please try again."
)

// CompletionGateway is the slice of the LLM client the pipeline calls.
// Satisfied by *llm.Client.
type CompletionGateway interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Result, error)
}

// ModelSet names the provider model each pipeline stage runs on. Analysis is
// a cheaper model than generation; the split is a cost decision, not a
// quality one.
type ModelSet struct {
	Analysis   string
	Generation string
}

// GenerateParams is one full-pipeline request: the page the extension
// captured plus the user's style choices.
type GenerateParams struct {
	LinkedInURL string
	HTML        string
	Objective   string
	Tone        model.Tone
	Length      model.Length
}

func (p GenerateParams) withDefaults() GenerateParams {
	if p.Objective == "" {
		p.Objective = "networking"
	}
	if p.Tone == "" {
		p.Tone = model.ToneProfessional
	}
	if p.Length == "" {
		p.Length = model.LengthMedium
	}
	return p
}

// GenerateResult is what every pipeline entry point returns: the new draft,
// the artifacts behind it, and the balance after the deduction. Analysis and
// Target are nil when polish runs without a prior generation.
type GenerateResult struct {
	Draft            *model.MessageDraft    `json:"draft"`
	Analysis         *model.ProfileAnalysis `json:"analysis,omitempty"`
	Target           *model.TargetProfile   `json:"target,omitempty"`
	CreditsRemaining int                    `json:"credits_remaining"`
}

// GenerationService runs the outreach pipeline. One pipeline per user at a
// time; every entry point spends exactly one credit before calling the
// provider, and a failed pipeline does not refund it.
type GenerationService interface {
	// Generate runs the full pipeline against a captured profile page:
	// extract, analyze, compose.
	Generate(ctx context.Context, userID string, params GenerateParams) (*GenerateResult, error)
	// Regenerate recomposes the message with a new tone or length, reusing
	// the session's extraction and analysis instead of paying for them
	// again.
	Regenerate(ctx context.Context, userID string, tone model.Tone, length model.Length) (*GenerateResult, error)
	// Polish rewrites the given message per the instruction. The message
	// comes from the request so manual edits in the popup survive; no
	// prior session is required.
	Polish(ctx context.Context, userID, message, instruction string) (*GenerateResult, error)
}

type generationService struct {
	userRepo  repository.UserRepository
	credits   CreditService
	gateway   CompletionGateway
	sessions  *session.Manager
	models    ModelSet
	clock     chrono.TimeAPI
	genLogger zerolog.Logger
}

func NewGenerationService(userRepo repository.UserRepository, credits CreditService, gateway CompletionGateway, sessions *session.Manager, models ModelSet, clock chrono.TimeAPI, logger zerolog.Logger) GenerationService {
	return &generationService{
		userRepo:  userRepo,
		credits:   credits,
		gateway:   gateway,
		sessions:  sessions,
		models:    models,
		clock:     clock,
		genLogger: logger.With().Str("service", "GenerationService").Logger(),
	}
}

func (s *generationService) Generate(ctx context.Context, userID string, params GenerateParams) (*GenerateResult, error) {
	release, ok := s.sessions.TryBegin(userID)
	if !ok {
		return nil, ErrPipelineBusy
	}
	defer release()

	u, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for generation")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if u.ProfileEmpty() {
		s.sessions.SetState(userID, session.StateSetup)
		return nil, ErrProfileNotConfigured
	}

	params = params.withDefaults()

	// Deduct before the provider is touched. A pipeline that fails
	// downstream has still consumed real tokens, so the credit stays spent.
	u, err = s.credits.Deduct(ctx, userID, 1)
	if err != nil {
		return nil, err
	}

	s.sessions.SetState(userID, session.StateExtracting)
	target, err := extractor.ExtractProfile(params.HTML, params.LinkedInURL)
	if err != nil {
		s.genLogger.Warn().Err(err).Str("user_id", userID).Str("url", params.LinkedInURL).Msg("Profile extraction failed")
		s.sessions.Fail(userID, failMsgUnreadable)
		return nil, err
	}

	s.sessions.SetState(userID, session.StateAnalyzing)
	analysis, err := s.analyze(ctx, u, target)
	if err != nil {
		s.sessions.Fail(userID, failMsgGenerate)
		return nil, err
	}

	s.sessions.SetState(userID, session.StateGenerating)
	draft, err := s.compose(ctx, u, target, analysis, params.Objective, params.Tone, params.Length, 1)
	if err != nil {
		// The analysis dies with the pipeline; it is only kept once a
		// draft exists to pair it with.
		s.sessions.Fail(userID, failMsgGenerate)
		return nil, err
	}

	s.sessions.Update(userID, func(sess *session.Session) {
		sess.State = session.StateMessage
		sess.Objective = params.Objective
		sess.Target = target
		sess.Analysis = analysis
		sess.Draft = draft
		sess.LastError = ""
	})
	s.genLogger.Info().
		Str("user_id", userID).
		Str("target", target.Name).
		Int("tokens_used", analysis.TokensUsed+draft.TokensUsed).
		Msg("Generated outreach message")

	return &GenerateResult{Draft: draft, Analysis: analysis, Target: target, CreditsRemaining: u.Credits}, nil
}

func (s *generationService) Regenerate(ctx context.Context, userID string, tone model.Tone, length model.Length) (*GenerateResult, error) {
	release, ok := s.sessions.TryBegin(userID)
	if !ok {
		return nil, ErrPipelineBusy
	}
	defer release()

	snap := s.sessions.Snapshot(userID)
	if snap.Target == nil || snap.Analysis == nil {
		return nil, ErrNoActiveMessage
	}
	if tone == "" {
		tone = model.ToneProfessional
		if snap.Draft != nil {
			tone = snap.Draft.Tone
		}
	}
	if length == "" {
		length = model.LengthMedium
		if snap.Draft != nil {
			length = snap.Draft.Length
		}
	}
	version := 1
	if snap.Draft != nil {
		version = snap.Draft.Version + 1
	}

	u, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for regeneration")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	u, err = s.credits.Deduct(ctx, userID, 1)
	if err != nil {
		return nil, err
	}

	s.sessions.SetState(userID, session.StateCustomizing)
	draft, err := s.compose(ctx, u, snap.Target, snap.Analysis, snap.Objective, tone, length, version)
	if err != nil {
		s.sessions.Fail(userID, failMsgGenerate)
		return nil, err
	}

	s.sessions.Update(userID, func(sess *session.Session) {
		sess.State = session.StateMessage
		sess.Draft = draft
		sess.LastError = ""
	})
	return &GenerateResult{Draft: draft, Analysis: snap.Analysis, Target: snap.Target, CreditsRemaining: u.Credits}, nil
}

func (s *generationService) Polish(ctx context.Context, userID, message, instruction string) (*GenerateResult, error) {
	release, ok := s.sessions.TryBegin(userID)
	if !ok {
		return nil, ErrPipelineBusy
	}
	defer release()

	snap := s.sessions.Snapshot(userID)

	u, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for polish")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	u, err = s.credits.Deduct(ctx, userID, 1)
	if err != nil {
		return nil, err
	}

	s.sessions.SetState(userID, session.StateCustomizing)
	p := prompt.FormatPolishPrompt(message, instruction)
	res, err := s.gateway.Complete(ctx, llm.CompletionRequest{
		Model:       s.models.Generation,
		System:      p.System,
		User:        p.User,
		Temperature: polishTemperature,
	})
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", userID).Msg("Polish call failed")
		s.sessions.Fail(userID, failMsgGenerate)
		return nil, err
	}
	parsed, err := llm.DecodePolish(res.Content)
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", userID).Str("model", res.Model).Msg("Polish response failed validation")
		s.sessions.Fail(userID, failMsgGenerate)
		return nil, err
	}

	draft := &model.MessageDraft{
		ID:          uuid.NewString(),
		Body:        parsed.Message,
		Annotations: parsed.Annotations,
		Version:     1,
		ModelUsed:   res.Model,
		TokensUsed:  res.TokensUsed,
		CreatedAt:   s.clock.Now(),
	}
	if snap.Draft != nil {
		// Polish edits the body only; everything else carries over from
		// the draft being edited.
		draft.TargetProfileID = snap.Draft.TargetProfileID
		draft.AnalysisID = snap.Draft.AnalysisID
		draft.Subject = snap.Draft.Subject
		draft.Tone = snap.Draft.Tone
		draft.Length = snap.Draft.Length
		draft.Version = snap.Draft.Version + 1
	}

	s.sessions.Update(userID, func(sess *session.Session) {
		sess.State = session.StateMessage
		sess.Draft = draft
		sess.LastError = ""
	})
	return &GenerateResult{Draft: draft, Analysis: snap.Analysis, Target: snap.Target, CreditsRemaining: u.Credits}, nil
}

func (s *generationService) analyze(ctx context.Context, u *model.User, target *model.TargetProfile) (*model.ProfileAnalysis, error) {
	p := prompt.FormatAnalysisPrompt(u, target)
	res, err := s.gateway.Complete(ctx, llm.CompletionRequest{
		Model:       s.models.Analysis,
		System:      p.System,
		User:        p.User,
		Temperature: analysisTemperature,
	})
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", u.UserID).Msg("Analysis call failed")
		return nil, err
	}
	parsed, err := llm.DecodeAnalysis(res.Content)
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", u.UserID).Str("model", res.Model).Msg("Analysis response failed validation")
		return nil, err
	}

	return &model.ProfileAnalysis{
		ID:                      uuid.NewString(),
		TargetProfileID:         target.ID,
		UserProfileID:           u.UserID,
		TalkingPoints:           parsed.TalkingPoints,
		MutualInterests:         parsed.MutualInterests,
		ConnectionOpportunities: parsed.ConnectionOpportunities,
		SuggestedApproach:       parsed.SuggestedApproach,
		CautionFlags:            parsed.CautionFlags,
		ModelUsed:               res.Model,
		TokensUsed:              res.TokensUsed,
	}, nil
}

func (s *generationService) compose(ctx context.Context, u *model.User, target *model.TargetProfile, analysis *model.ProfileAnalysis, objective string, tone model.Tone, length model.Length, version int) (*model.MessageDraft, error) {
	p := prompt.FormatMessagePrompt(u, target, analysis, objective, tone, length)
	res, err := s.gateway.Complete(ctx, llm.CompletionRequest{
		Model:       s.models.Generation,
		System:      p.System,
		User:        p.User,
		Temperature: generationTemperature,
	})
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", u.UserID).Msg("Generation call failed")
		return nil, err
	}
	parsed, err := llm.DecodeMessage(res.Content)
	if err != nil {
		s.genLogger.Error().Err(err).Str("user_id", u.UserID).Str("model", res.Model).Msg("Generation response failed validation")
		return nil, err
	}

	return &model.MessageDraft{
		ID:              uuid.NewString(),
		TargetProfileID: target.ID,
		AnalysisID:      analysis.ID,
		Subject:         parsed.Subject,
		Body:            parsed.Message,
		Annotations:     parsed.Annotations,
		Tone:            tone,
		Length:          length,
		Version:         version,
		ModelUsed:       res.Model,
		TokensUsed:      res.TokensUsed,
		CreatedAt:       s.clock.Now(),
	}, nil
}
