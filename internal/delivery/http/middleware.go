package http

import (
	"context"
	"net/http"
	"strings"

	"mingle/internal/entity"
	"mingle/internal/usecase"
)

type contextKey string

const UserContextKey contextKey = "user"

type AuthMiddleware struct {
	authUc usecase.AuthUsecase
}

func NewAuthMiddleware(authUc usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		authUc: authUc,
	}
}

// Authenticate validates the bearer token and injects the authenticated
// user's claims into the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respond(w, http.StatusUnauthorized, Response{Message: "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respond(w, http.StatusUnauthorized, Response{Message: "invalid authorization header format"})
			return
		}

		claims, err := m.authUc.ValidateAccessToken(parts[1])
		if err != nil {
			respond(w, http.StatusUnauthorized, Response{Message: "invalid or expired token"})
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIdFromContext returns the authenticated user id injected by
// Authenticate.
func UserIdFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(UserContextKey).(*entity.TokenClaims)
	if !ok || claims.UserId == "" {
		return "", false
	}
	return claims.UserId, true
}
