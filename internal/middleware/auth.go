package middleware

import (
	"context"
	"net/http"
	"strings"

	"coldopen/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const (
	UserContextKey  = contextKey("user")
	EmailContextKey = contextKey("email")
	NameContextKey  = contextKey("name")
)

// UserID pulls the authenticated user id out of the request context. Empty
// means the request never passed AuthMiddleware.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserContextKey).(string)
	return id
}

// Identity returns the full token identity stashed by AuthMiddleware.
func Identity(ctx context.Context) (id, email, name string) {
	id, _ = ctx.Value(UserContextKey).(string)
	email, _ = ctx.Value(EmailContextKey).(string)
	name, _ = ctx.Value(NameContextKey).(string)
	return id, email, name
}

func AuthMiddleware(jwtSecret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	authLogger := logger.With().Str("middleware", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authLogger.Debug().Str("path", r.URL.Path).Msg("Authorization header missing")
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				authLogger.Debug().Str("path", r.URL.Path).Msg("Invalid authorization header")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := util.ValidateJWT(parts[1], jwtSecret)
			if err != nil {
				authLogger.Debug().Err(err).Str("path", r.URL.Path).Msg("Invalid token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			// Embed the token identity into the request context
			ctx := context.WithValue(r.Context(), UserContextKey, claims.Subject)
			ctx = context.WithValue(ctx, EmailContextKey, claims.Email)
			ctx = context.WithValue(ctx, NameContextKey, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
