package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"coldopen/internal/api/v1/dto"
	"coldopen/internal/middleware"
	"coldopen/internal/service"
)

type CreditsHandler struct {
	creditService service.CreditService
}

func NewCreditsHandler(creditService service.CreditService) *CreditsHandler {
	return &CreditsHandler{creditService: creditService}
}

// RegisterRoutes mounts v1 credit routes
func (h *CreditsHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/credits/status", authMw(http.HandlerFunc(h.getStatus)))
}

// getStatus godoc
// @Summary Get the credit balance
// @Description Settles any due reset and returns the current balance with the next refresh time.
// @Tags credits
// @Produce json
// @Success 200 {object} dto.CreditStatusResponseDTO
// @Failure 401 {string} string "User not found. Sign in again."
// @Failure 500 {string} string "Failed to retrieve credit status"
// @Router /credits/status [get]
func (h *CreditsHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/credits/status" {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	u, err := h.creditService.CheckAndReset(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found. Sign in again.", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Failed to retrieve credit status", http.StatusInternalServerError)
		return
	}

	resp := dto.CreditStatusFromModel(u)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
