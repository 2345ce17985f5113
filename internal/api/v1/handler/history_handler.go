package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"coldopen/internal/api/v1/dto"
	"coldopen/internal/middleware"
	"coldopen/internal/service"

	"github.com/go-playground/validator/v10"
)

type HistoryHandler struct {
	historyService service.HistoryService
	validate       *validator.Validate
}

func NewHistoryHandler(historyService service.HistoryService, v *validator.Validate) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, validate: v}
}

// RegisterRoutes mounts v1 history routes
func (h *HistoryHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/history", authMw(http.HandlerFunc(h.handleHistory)))
	mux.Handle("/history/duplicate", authMw(http.HandlerFunc(h.checkDuplicate)))
}

func (h *HistoryHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listHistory(w, r)
	case http.MethodPost:
		h.recordContact(w, r)
	default:
		http.NotFound(w, r)
	}
}

// listHistory godoc
// @Summary List outreach history
// @Description Returns live records newest first, optionally filtered by a name search.
// @Tags history
// @Produce json
// @Param q query string false "Case-insensitive name search"
// @Success 200 {array} dto.HistoryRecordResponseDTO
// @Failure 500 {string} string "Failed to list history"
// @Router /history [get]
func (h *HistoryHandler) listHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	records, err := h.historyService.List(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, "Failed to list history", http.StatusInternalServerError)
		return
	}

	resp := dto.HistoryRecordsFromModel(records)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// recordContact godoc
// @Summary Record a contacted target
// @Description Appends one history entry; sent when the user copies a message.
// @Tags history
// @Accept json
// @Produce json
// @Param record body dto.HistoryCreateDTO true "Contacted target"
// @Success 201 {object} dto.HistoryRecordResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "User not found. Sign in again."
// @Failure 500 {string} string "Failed to record contact"
// @Router /history [post]
func (h *HistoryHandler) recordContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.HistoryCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.historyService.Record(r.Context(), userID, req.TargetName, req.TargetLinkedInURL)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found. Sign in again.", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Failed to record contact", http.StatusInternalServerError)
		return
	}

	resp := dto.HistoryRecordFromModel(rec)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// checkDuplicate godoc
// @Summary Check for a prior contact
// @Description Reports whether the URL was already contacted within the retention window. URL variants that differ only by query, fragment or trailing slash count as the same profile.
// @Tags history
// @Produce json
// @Param url query string true "Profile URL to check"
// @Success 200 {object} dto.DuplicateCheckResponseDTO
// @Failure 400 {string} string "Missing url parameter"
// @Failure 500 {string} string "Failed to check for duplicates"
// @Router /history/duplicate [get]
func (h *HistoryHandler) checkDuplicate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		http.Error(w, "Missing url parameter", http.StatusBadRequest)
		return
	}

	rec, err := h.historyService.CheckDuplicate(r.Context(), userID, rawURL)
	if err != nil {
		http.Error(w, "Failed to check for duplicates", http.StatusInternalServerError)
		return
	}

	resp := dto.DuplicateCheckResponseDTO{Duplicate: rec != nil}
	if rec != nil {
		out := dto.HistoryRecordFromModel(rec)
		resp.Record = &out
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
