package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/careercompass/service-auth-go/internal/user/entity"
	userrepo "github.com/careercompass/service-auth-go/internal/user/repo"
)

// UserLoader resolves a token subject to an account. Lookups for unknown
// subjects return an error wrapping userrepo.ErrNotFound.
type UserLoader interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// Unauthorized writes the bearer challenge every auth failure carries.
func Unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(h[len("bearer "):]), true
}

// Middleware guards a route. It verifies the bearer token, loads the
// subject account, rejects inactive accounts and stashes the account in
// the request context for the handler.
func Middleware(tokens *TokenService, users UserLoader, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := BearerToken(r)
			if !ok {
				Unauthorized(w, "Could not validate credentials")
				return
			}
			email, err := tokens.Verify(tok)
			if err != nil {
				Unauthorized(w, "Could not validate credentials")
				return
			}
			u, err := users.GetByEmail(r.Context(), email)
			if err != nil {
				if errors.Is(err, userrepo.ErrNotFound) {
					Unauthorized(w, "Could not validate credentials")
					return
				}
				logger.Warnw("subject lookup failed", "err", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "internal server error"})
				return
			}
			if !u.IsActive {
				Unauthorized(w, "Inactive user")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}
