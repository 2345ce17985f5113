package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"coldopen/internal/chrono"
	"coldopen/internal/extractor"
	"coldopen/internal/llm"
	"coldopen/internal/model"
	"coldopen/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const targetPage = `
<html><body><main>
  <section data-member-id="31415">
    <h1 class="text-heading-xlarge">Jane Doe</h1>
    <div class="text-body-medium break-words">Staff Engineer at Initech</div>
  </section>
  <section>
    <div id="about"></div>
    <div><span aria-hidden="true">Ten years building petabyte-scale data pipelines.</span></div>
  </section>
</main></body></html>`

const targetPageURL = "https://www.linkedin.com/in/jane-doe/?utm_source=share"

const (
	cannedAnalysisJSON = `{
		"talking_points": [{"topic": "Data pipelines", "detail": "Ten years building petabyte-scale pipelines", "relevance": "high"}],
		"mutual_interests": ["distributed systems"],
		"connection_opportunities": ["shared tooling interests"],
		"suggested_approach": "Lead with the pipeline work.",
		"caution_flags": []
	}`
	cannedMessageJSON = `{
		"subject": "Your pipeline work",
		"message": "Hi Jane, your decade of data pipelines work caught my eye.",
		"annotations": [{"text": "data pipelines", "source": "target_profile"}]
	}`
	cannedPolishJSON = `{
		"message": "Hi Jane — a decade of pipeline work is hard to miss.",
		"annotations": []
	}`
)

// fakeGateway records every completion call and answers via the pluggable
// respond func.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []llm.CompletionRequest
	respond func(llm.CompletionRequest) (*llm.Result, error)
}

func (g *fakeGateway) Complete(_ context.Context, req llm.CompletionRequest) (*llm.Result, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	return g.respond(req)
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGateway) call(i int) llm.CompletionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[i]
}

func respondCanned(req llm.CompletionRequest) (*llm.Result, error) {
	if req.Model == "m-analysis" {
		return &llm.Result{Content: cannedAnalysisJSON, Model: req.Model, TokensUsed: 180}, nil
	}
	return &llm.Result{Content: cannedMessageJSON, Model: req.Model, TokensUsed: 320}, nil
}

func genServiceAt(store *fakeStore, gw *fakeGateway, sessions *session.Manager, now time.Time) GenerationService {
	credits := NewCreditService(store, store, chrono.Fixed{T: now}, zerolog.Nop())
	models := ModelSet{Analysis: "m-analysis", Generation: "m-generate"}
	return NewGenerationService(store, credits, gw, sessions, models, chrono.Fixed{T: now}, zerolog.Nop())
}

func TestGenerateFullPipeline(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: respondCanned}
	sessions := session.NewManager()

	res, err := genServiceAt(store, gw, sessions, now).Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
		Objective:   "job_inquiry",
		Tone:        model.ToneCasual,
		Length:      model.LengthShort,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, res.CreditsRemaining)
	assert.Equal(t, "Jane Doe", res.Target.Name)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", res.Target.LinkedInURL)

	require.NotEmpty(t, res.Analysis.TalkingPoints)
	assert.Equal(t, "Data pipelines", res.Analysis.TalkingPoints[0].Topic)
	assert.Equal(t, "m-analysis", res.Analysis.ModelUsed)
	assert.Equal(t, 180, res.Analysis.TokensUsed)
	assert.Equal(t, "u1", res.Analysis.UserProfileID)

	assert.Contains(t, res.Draft.Body, "data pipelines", "draft references the talking point")
	assert.Equal(t, 1, res.Draft.Version)
	assert.Equal(t, model.ToneCasual, res.Draft.Tone)
	assert.Equal(t, model.LengthShort, res.Draft.Length)
	assert.Equal(t, res.Analysis.ID, res.Draft.AnalysisID)
	assert.Equal(t, "m-generate", res.Draft.ModelUsed)
	assert.Equal(t, 320, res.Draft.TokensUsed)
	assert.Equal(t, now, res.Draft.CreatedAt)

	// Exactly two completion calls: one analysis, one generation.
	require.Equal(t, 2, gw.callCount())
	first, second := gw.call(0), gw.call(1)
	assert.Equal(t, "m-analysis", first.Model)
	assert.Contains(t, first.User, "Jane Doe")
	assert.Contains(t, first.User, "petabyte-scale data pipelines")
	assert.Equal(t, "m-generate", second.Model)
	assert.Contains(t, second.User, "casual")
	assert.Contains(t, second.User, "50-100 words")
	assert.Contains(t, second.User, "Data pipelines", "analysis is flattened into the generation prompt")

	snap := sessions.Snapshot("u1")
	assert.Equal(t, session.StateMessage, snap.State)
	require.NotNil(t, snap.Draft)
	assert.Equal(t, res.Draft.ID, snap.Draft.ID)
	assert.Equal(t, "job_inquiry", snap.Objective)
	assert.Empty(t, snap.LastError)
}

func TestGenerateDefaultsPresets(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: respondCanned}

	res, err := genServiceAt(store, gw, session.NewManager(), now).Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ToneProfessional, res.Draft.Tone)
	assert.Equal(t, model.LengthMedium, res.Draft.Length)
	second := gw.call(1)
	assert.Contains(t, second.User, "professional")
	assert.Contains(t, second.User, "100-150 words")
}

func TestGenerateProfileNotConfigured(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.users["u1"] = &model.User{UserID: "u1", Plan: model.PlanFree, Credits: 5, LastCreditReset: now}
	gw := &fakeGateway{respond: respondCanned}
	sessions := session.NewManager()

	_, err := genServiceAt(store, gw, sessions, now).Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
	})
	assert.ErrorIs(t, err, ErrProfileNotConfigured)

	assert.Equal(t, session.StateSetup, sessions.Snapshot("u1").State)
	assert.Equal(t, 5, store.users["u1"].Credits, "no credit is spent before the profile exists")
	assert.Zero(t, gw.callCount())
}

func TestGenerateInsufficientCredits(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 0, now)
	gw := &fakeGateway{respond: respondCanned}
	sessions := session.NewManager()

	_, err := genServiceAt(store, gw, sessions, now).Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
	})
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Zero(t, gw.callCount(), "the provider is never called without a credit")
	assert.Equal(t, session.StateIdle, sessions.Snapshot("u1").State)
}

func TestGenerateUnreadablePage(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: respondCanned}
	sessions := session.NewManager()

	_, err := genServiceAt(store, gw, sessions, now).Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        "<html><body><p>Sign in to continue</p></body></html>",
	})
	assert.ErrorIs(t, err, extractor.ErrProfileUnreadable)

	assert.Equal(t, 4, store.users["u1"].Credits, "failed pipelines keep the credit spent")
	assert.Zero(t, gw.callCount())
	snap := sessions.Snapshot("u1")
	assert.Equal(t, session.StateError, snap.State)
	assert.Contains(t, snap.LastError, "Could not read the profile page")
}

func TestGenerateGatewayFailure(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: func(llm.CompletionRequest) (*llm.Result, error) {
		return nil, fmt.Errorf("%w: provider returned 503", llm.ErrRequestFailed)
	}}
	sessions := session.NewManager()

	_, err := genServiceAt(store, gw, sessions, now).Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
	})
	assert.ErrorIs(t, err, llm.ErrRequestFailed)

	assert.Equal(t, 1, gw.callCount(), "one attempt, no retry")
	assert.Equal(t, 4, store.users["u1"].Credits)
	snap := sessions.Snapshot("u1")
	assert.Equal(t, session.StateError, snap.State)
	assert.Equal(t, "Failed to generate message. Please try again.", snap.LastError)
	assert.Nil(t, snap.Analysis, "nothing from the failed pipeline is kept")
}

func TestGenerateSchemaViolationDiscardsAnalysis(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: func(req llm.CompletionRequest) (*llm.Result, error) {
		if req.Model == "m-analysis" {
			return &llm.Result{Content: cannedAnalysisJSON, Model: req.Model, TokensUsed: 180}, nil
		}
		// Generation succeeds at the transport level but violates the schema.
		return &llm.Result{Content: `{"subject": "hi", "message": ""}`, Model: req.Model, TokensUsed: 40}, nil
	}}
	sessions := session.NewManager()

	_, err := genServiceAt(store, gw, sessions, now).Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
	})
	assert.ErrorIs(t, err, llm.ErrSchemaViolation)

	snap := sessions.Snapshot("u1")
	assert.Equal(t, session.StateError, snap.State)
	assert.Nil(t, snap.Analysis, "a valid analysis is still discarded when composition fails")
}

func TestGenerateRejectsConcurrentPipeline(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)

	started := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once
	gw := &fakeGateway{respond: func(req llm.CompletionRequest) (*llm.Result, error) {
		if req.Model == "m-analysis" {
			once.Do(func() { close(started) })
			<-proceed
			return &llm.Result{Content: cannedAnalysisJSON, Model: req.Model, TokensUsed: 180}, nil
		}
		return &llm.Result{Content: cannedMessageJSON, Model: req.Model, TokensUsed: 320}, nil
	}}
	sessions := session.NewManager()
	svc := genServiceAt(store, gw, sessions, now)

	params := GenerateParams{LinkedInURL: targetPageURL, HTML: targetPage}
	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), "u1", params)
		done <- err
	}()

	<-started
	_, err := svc.Generate(context.Background(), "u1", params)
	assert.ErrorIs(t, err, ErrPipelineBusy)

	close(proceed)
	require.NoError(t, <-done)
	assert.Equal(t, 4, store.users["u1"].Credits, "the rejected request spends nothing")
}

func TestRegenerateReusesAnalysis(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: respondCanned}
	sessions := session.NewManager()
	svc := genServiceAt(store, gw, sessions, now)

	first, err := svc.Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
		Tone:        model.ToneCasual,
		Length:      model.LengthShort,
	})
	require.NoError(t, err)

	res, err := svc.Regenerate(context.Background(), "u1", model.ToneFriendly, model.LengthLong)
	require.NoError(t, err)

	// One extra call only: extraction and analysis are not repeated.
	require.Equal(t, 3, gw.callCount())
	third := gw.call(2)
	assert.Equal(t, "m-generate", third.Model)
	assert.Contains(t, third.User, "friendly")
	assert.Contains(t, third.User, "150-250 words")

	assert.Equal(t, 2, res.Draft.Version)
	assert.Equal(t, model.ToneFriendly, res.Draft.Tone)
	assert.Equal(t, first.Analysis.ID, res.Analysis.ID, "the original analysis is reused")
	assert.Equal(t, 3, res.CreditsRemaining, "regeneration costs one credit")
	assert.Equal(t, session.StateMessage, sessions.Snapshot("u1").State)
}

func TestRegenerateKeepsPresetsWhenOmitted(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: respondCanned}
	sessions := session.NewManager()
	svc := genServiceAt(store, gw, sessions, now)

	_, err := svc.Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
		Tone:        model.ToneDirect,
		Length:      model.LengthShort,
	})
	require.NoError(t, err)

	res, err := svc.Regenerate(context.Background(), "u1", "", "")
	require.NoError(t, err)

	assert.Equal(t, model.ToneDirect, res.Draft.Tone)
	assert.Equal(t, model.LengthShort, res.Draft.Length)
}

func TestRegenerateWithoutActiveSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: respondCanned}

	_, err := genServiceAt(store, gw, session.NewManager(), now).Regenerate(context.Background(), "u1", model.ToneCasual, model.LengthShort)
	assert.ErrorIs(t, err, ErrNoActiveMessage)
	assert.Zero(t, gw.callCount())
	assert.Equal(t, 5, store.users["u1"].Credits)
}

func TestPolishStandalone(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: func(req llm.CompletionRequest) (*llm.Result, error) {
		return &llm.Result{Content: cannedPolishJSON, Model: req.Model, TokensUsed: 90}, nil
	}}
	sessions := session.NewManager()

	res, err := genServiceAt(store, gw, sessions, now).Polish(context.Background(), "u1", "Hi Jane, quick note about pipelines.", "Make it warmer")
	require.NoError(t, err)

	require.Equal(t, 1, gw.callCount())
	call := gw.call(0)
	assert.Equal(t, "m-generate", call.Model)
	assert.Contains(t, call.User, "Hi Jane, quick note about pipelines.")
	assert.Contains(t, call.User, "Make it warmer")

	assert.Equal(t, "Hi Jane — a decade of pipeline work is hard to miss.", res.Draft.Body)
	assert.Equal(t, 1, res.Draft.Version)
	assert.Nil(t, res.Analysis, "polish needs no prior pipeline")
	assert.Equal(t, 4, res.CreditsRemaining)
	assert.Equal(t, session.StateMessage, sessions.Snapshot("u1").State)
}

func TestPolishAfterGenerateBumpsVersion(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	seedUser(store, "u1", model.PlanFree, 5, now)
	gw := &fakeGateway{respond: func(req llm.CompletionRequest) (*llm.Result, error) {
		if strings.Contains(req.User, "Shorter") {
			return &llm.Result{Content: cannedPolishJSON, Model: req.Model, TokensUsed: 90}, nil
		}
		return respondCanned(req)
	}}
	sessions := session.NewManager()
	svc := genServiceAt(store, gw, sessions, now)

	first, err := svc.Generate(context.Background(), "u1", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
		Tone:        model.ToneCasual,
	})
	require.NoError(t, err)

	res, err := svc.Polish(context.Background(), "u1", first.Draft.Body, "Shorter")
	require.NoError(t, err)

	assert.Equal(t, first.Draft.Version+1, res.Draft.Version)
	assert.Equal(t, first.Draft.Subject, res.Draft.Subject, "polish keeps the subject")
	assert.Equal(t, model.ToneCasual, res.Draft.Tone)
	assert.Equal(t, first.Analysis.ID, res.Analysis.ID)
}

func TestGenerateUnknownUser(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	gw := &fakeGateway{respond: respondCanned}

	_, err := genServiceAt(newFakeStore(), gw, session.NewManager(), now).Generate(context.Background(), "ghost", GenerateParams{
		LinkedInURL: targetPageURL,
		HTML:        targetPage,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, gw.callCount())
}
