package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"coldopen/internal/api/v1/dto"
	"coldopen/internal/extractor"
	"coldopen/internal/llm"
	"coldopen/internal/middleware"
	"coldopen/internal/model"
	"coldopen/internal/service"
	"coldopen/internal/session"

	"github.com/go-playground/validator/v10"
)

// GenerateHandler serves the pipeline endpoints and the session snapshot the
// popup polls while a pipeline runs.
type GenerateHandler struct {
	generationService service.GenerationService
	sessions          *session.Manager
	validate          *validator.Validate
}

func NewGenerateHandler(generationService service.GenerationService, sessions *session.Manager, v *validator.Validate) *GenerateHandler {
	return &GenerateHandler{generationService: generationService, sessions: sessions, validate: v}
}

// RegisterRoutes mounts v1 generation routes
func (h *GenerateHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/generate", authMw(http.HandlerFunc(h.generate)))
	mux.Handle("/generate/", authMw(http.HandlerFunc(h.handleGenerateSub)))
	mux.Handle("/session", authMw(http.HandlerFunc(h.getSession)))
}

func (h *GenerateHandler) handleGenerateSub(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/generate/regenerate":
		h.regenerate(w, r)

	case r.Method == http.MethodPost && r.URL.Path == "/generate/polish":
		h.polish(w, r)
	default:
		http.NotFound(w, r)
	}
}

// generate godoc
// @Summary Generate an outreach message
// @Description Runs the full pipeline against the captured profile page: extract, analyze, compose. Costs one credit.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequestDTO true "Captured page and style presets"
// @Success 200 {object} dto.GenerateResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 402 {string} string "You are out of credits. Upgrade to Pro or wait for your next reset."
// @Failure 409 {string} string "A generation is already running. Wait for it to finish."
// @Failure 412 {string} string "Set up your profile before generating messages."
// @Failure 422 {string} string "Could not read the profile page."
// @Failure 502 {string} string "Failed to generate message. Please try again."
// @Router /generate [post]
func (h *GenerateHandler) generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/generate" {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.GenerateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.generationService.Generate(r.Context(), userID, service.GenerateParams{
		LinkedInURL: req.LinkedInURL,
		HTML:        req.HTML,
		Objective:   req.Objective,
		Tone:        model.Tone(req.Tone),
		Length:      model.Length(req.Length),
	})
	if err != nil {
		writePipelineError(w, err)
		return
	}

	resp := dto.GenerateResponseFromResult(res)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// regenerate godoc
// @Summary Regenerate with new presets
// @Description Recomposes the current message with a different tone or length, reusing the session's analysis. Costs one credit.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body dto.RegenerateRequestDTO true "New presets; omitted fields keep the current ones"
// @Success 200 {object} dto.GenerateResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 402 {string} string "You are out of credits. Upgrade to Pro or wait for your next reset."
// @Failure 409 {string} string "No active message to regenerate. Generate one first."
// @Failure 502 {string} string "Failed to generate message. Please try again."
// @Router /generate/regenerate [post]
func (h *GenerateHandler) regenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.RegenerateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.generationService.Regenerate(r.Context(), userID, model.Tone(req.Tone), model.Length(req.Length))
	if err != nil {
		writePipelineError(w, err)
		return
	}

	resp := dto.GenerateResponseFromResult(res)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// polish godoc
// @Summary Polish the message
// @Description Rewrites the submitted message per the instruction, preserving manual edits. Costs one credit.
// @Tags generate
// @Accept json
// @Produce json
// @Param request body dto.PolishRequestDTO true "Message text and optional instruction"
// @Success 200 {object} dto.GenerateResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 402 {string} string "You are out of credits. Upgrade to Pro or wait for your next reset."
// @Failure 502 {string} string "Failed to generate message. Please try again."
// @Router /generate/polish [post]
func (h *GenerateHandler) polish(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.PolishRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.generationService.Polish(r.Context(), userID, req.Message, req.Instruction)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	resp := dto.GenerateResponseFromResult(res)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// getSession godoc
// @Summary Get the pipeline session
// @Description Returns the popup's view of the running or finished pipeline.
// @Tags generate
// @Produce json
// @Success 200 {object} dto.SessionResponseDTO
// @Router /session [get]
func (h *GenerateHandler) getSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/session" {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	resp := dto.SessionFromSnapshot(h.sessions.Snapshot(userID))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writePipelineError maps pipeline failures onto statuses the popup
// understands. Provider details never reach the client; the service already
// logged them.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		http.Error(w, "User not found. Sign in again.", http.StatusUnauthorized)
	case errors.Is(err, service.ErrInsufficientCredits):
		http.Error(w, "You are out of credits. Upgrade to Pro or wait for your next reset.", http.StatusPaymentRequired)
	case errors.Is(err, service.ErrPipelineBusy):
		http.Error(w, "A generation is already running. Wait for it to finish.", http.StatusConflict)
	case errors.Is(err, service.ErrNoActiveMessage):
		http.Error(w, "No active message to regenerate. Generate one first.", http.StatusConflict)
	case errors.Is(err, service.ErrProfileNotConfigured):
		http.Error(w, "Set up your profile before generating messages.", http.StatusPreconditionFailed)
	case errors.Is(err, extractor.ErrProfileUnreadable):
		http.Error(w, "Could not read the profile page. Open a LinkedIn profile and let it finish loading.", http.StatusUnprocessableEntity)
	case errors.Is(err, llm.ErrRequestFailed), errors.Is(err, llm.ErrMalformedResponse), errors.Is(err, llm.ErrSchemaViolation):
		http.Error(w, "Failed to generate message. Please try again.", http.StatusBadGateway)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
