package github

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/careercompass/service-auth-go/internal/auth"
	"github.com/careercompass/service-auth-go/internal/user"
)

// Handler wires the OAuth round trip to the local account base. A nil
// client means the flow is not configured and both routes answer 503.
type Handler struct {
	client      *Client
	users       *user.UserService
	tokens      *auth.TokenService
	stateSecret []byte
	logger      *zap.SugaredLogger
}

func NewHandler(client *Client, users *user.UserService, tokens *auth.TokenService, stateSecret string, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		client:      client,
		users:       users,
		tokens:      tokens,
		stateSecret: []byte(stateSecret),
		logger:      logger,
	}
}

// Login handles GET /auth/github/login with a redirect to GitHub.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "GitHub login is not configured"})
		return
	}
	state, err := h.newState()
	if err != nil {
		h.logger.Warnw("state signing failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	http.Redirect(w, r, h.client.AuthorizeURL(state), http.StatusFound)
}

// Callback handles GET /auth/github/callback. A successful round trip
// ends with one of our own bearer tokens, same shape as POST /token.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "GitHub login is not configured"})
		return
	}
	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "GitHub authorization was denied"})
		return
	}
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Missing code or state"})
		return
	}
	if err := h.verifyState(state); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid state"})
		return
	}

	ghToken, err := h.client.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Warnw("github token exchange failed", "err", err)
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "GitHub token exchange failed"})
		return
	}
	profile, err := h.client.FetchProfile(r.Context(), ghToken)
	if err != nil {
		h.logger.Warnw("github profile fetch failed", "err", err)
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "GitHub profile fetch failed"})
		return
	}

	u, err := h.users.EnsureOAuthUser(r.Context(), profile.Email, profile.DisplayName())
	if err != nil {
		h.logger.Warnw("github sign-in failed", "email", profile.Email, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	tok, err := h.tokens.Issue(u.Email)
	if err != nil {
		h.logger.Warnw("token signing failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	h.writeJSON(w, http.StatusOK, user.TokenResponse{AccessToken: tok, TokenType: "bearer"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
