package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"coldopen/internal/api/v1/dto"
	"coldopen/internal/middleware"
	"coldopen/internal/service"
)

type UserHandler struct {
	userService   service.UserService
	creditService service.CreditService
}

func NewUserHandler(userService service.UserService, creditService service.CreditService) *UserHandler {
	return &UserHandler{userService: userService, creditService: creditService}
}

// RegisterRoutes mounts v1 user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.handleUsers)))
}

func (h *UserHandler) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/users/me":
		h.signIn(w, r)

	case r.Method == http.MethodGet && r.URL.Path == "/users/me":
		h.getUser(w, r)
	default:
		http.NotFound(w, r)
	}
}

// signIn godoc
// @Summary Sign the user in
// @Description Upserts the account from the verified token claims. The body is ignored; identity comes from the token.
// @Tags users
// @Produce json
// @Success 201 {object} dto.UserResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to sign in"
// @Router /users/me [post]
func (h *UserHandler) signIn(w http.ResponseWriter, r *http.Request) {
	// 1. Extract identity from context; the auth middleware verified it.
	userID, email, name := middleware.Identity(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	// 2. Upsert the account. Sign-in is idempotent; repeat calls refresh
	// the identity fields and nothing else.
	u, err := h.userService.SignIn(r.Context(), userID, email, name)
	if err != nil {
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	// 3. Map domain model to response DTO
	resp := dto.UserFromModel(u)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// getUser godoc
// @Summary Get the signed-in user
// @Description Returns the account with profile and a freshly settled credit balance.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {string} string "User not found. Sign in again."
// @Failure 500 {string} string "Failed to retrieve user"
// @Router /users/me [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	// Settle any due credit reset so the popup never renders a stale zero.
	u, err := h.creditService.CheckAndReset(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found. Sign in again.", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Failed to retrieve user", http.StatusInternalServerError)
		return
	}

	resp := dto.UserFromModel(u)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
