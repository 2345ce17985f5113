package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coldopen/internal/util"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func protectedHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, email, name := Identity(r.Context())
		assert.Equal(t, wantUserID, id)
		assert.Equal(t, "alex@example.com", email)
		assert.Equal(t, "Alex Finch", name)
		assert.Equal(t, wantUserID, UserID(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	t.Parallel()

	token, err := util.GenerateToken("user-123", "alex@example.com", "Alex Finch", testSecret, time.Hour)
	require.NoError(t, err)

	handler := AuthMiddleware(testSecret, zerolog.Nop())(protectedHandler(t, "user-123"))

	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	t.Parallel()

	expired, err := util.GenerateToken("user-123", "alex@example.com", "Alex Finch", testSecret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not-a-token"},
		{name: "expired token", header: "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := AuthMiddleware(testSecret, zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("handler must not run for unauthenticated requests")
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
