package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/careercompass/service-auth-go/internal/auth"
)

// Handler exposes HTTP endpoints for user operations (login / signup /
// activation / profile).
type Handler struct {
	svc    *UserService
	tokens *auth.TokenService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, tokens *auth.TokenService, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// TokenResponse is the login success payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token handles POST /token. Credentials arrive form-encoded; unknown
// email and wrong password produce byte-identical responses.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request body"})
		return
	}
	username := r.Form.Get("username")
	password := r.Form.Get("password")
	u, err := h.svc.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			auth.Unauthorized(w, "Incorrect username or password")
			return
		}
		h.logger.Warnw("login failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	tok, err := h.tokens.Issue(u.Email)
	if err != nil {
		h.logger.Warnw("token signing failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	h.writeJSON(w, http.StatusOK, TokenResponse{AccessToken: tok, TokenType: "bearer"})
}

// CreateRequest is the registration payload.
type CreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Create handles POST /user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request body"})
		return
	}
	u, err := h.svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
		case errors.Is(err, ErrInvalidEmail):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid email address"})
		case errors.Is(err, ErrPasswordTooShort):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Password must be at least 8 characters"})
		default:
			h.logger.Warnw("signup failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, u.Public())
}

// Activate handles POST /user/activate/. The outcome is always reported
// with a 200 status body; only infrastructure faults surface as 500.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ok, err := h.svc.Activate(r.Context(), q.Get("email"), q.Get("activation_code"))
	if err != nil {
		h.logger.Warnw("activation failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	status := "failed"
	if ok {
		status = "success"
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// Me handles GET /user/me. The bearer middleware has already resolved
// the caller into the request context.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		auth.Unauthorized(w, "Could not validate credentials")
		return
	}
	h.writeJSON(w, http.StatusOK, u.Public())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
