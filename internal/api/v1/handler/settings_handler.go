package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"coldopen/internal/api/v1/dto"
	"coldopen/internal/middleware"
	"coldopen/internal/model"
	"coldopen/internal/service"

	"github.com/go-playground/validator/v10"
)

// SettingsHandler serves the outreach profile the user fills in once and
// every generated message draws on.
type SettingsHandler struct {
	userService service.UserService
	validate    *validator.Validate
}

func NewSettingsHandler(userService service.UserService, v *validator.Validate) *SettingsHandler {
	return &SettingsHandler{userService: userService, validate: v}
}

// RegisterRoutes mounts v1 settings routes
func (h *SettingsHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/settings", authMw(http.HandlerFunc(h.handleSettings)))
}

func (h *SettingsHandler) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.updateProfile(w, r)
	default:
		http.NotFound(w, r)
	}
}

// getProfile godoc
// @Summary Get the outreach profile
// @Tags settings
// @Produce json
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 401 {string} string "User not found. Sign in again."
// @Failure 500 {string} string "Failed to retrieve profile"
// @Router /settings [get]
func (h *SettingsHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	u, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found. Sign in again.", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Failed to retrieve profile", http.StatusInternalServerError)
		return
	}

	resp := dto.ProfileFromModel(u)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// updateProfile godoc
// @Summary Update the outreach profile
// @Description Replaces all profile fields with the submitted form.
// @Tags settings
// @Accept json
// @Produce json
// @Param profile body dto.ProfileUpdateDTO true "Profile update request"
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "User not found. Sign in again."
// @Failure 500 {string} string "Failed to update profile"
// @Router /settings [put]
func (h *SettingsHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.ProfileUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	u := &model.User{
		UserID:           userID,
		FullName:         req.FullName,
		CurrentRole:      req.CurrentRole,
		CurrentCompany:   req.CurrentCompany,
		Background:       req.Background,
		Goals:            req.Goals,
		ValueProposition: req.ValueProposition,
	}
	updated, err := h.userService.UpdateProfile(r.Context(), u)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found. Sign in again.", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	resp := dto.ProfileFromModel(updated)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
