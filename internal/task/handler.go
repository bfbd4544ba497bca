package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/careercompass/service-auth-go/internal/auth"
	"github.com/careercompass/service-auth-go/internal/task/entity"
)

// Handler exposes HTTP endpoints for completed tasks. Both routes sit
// behind the bearer middleware, so the caller is always in the context.
type Handler struct {
	svc    *TaskService
	logger *zap.SugaredLogger
}

func NewHandler(svc *TaskService, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, logger: logger}
}

// List handles GET /task.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		auth.Unauthorized(w, "Could not validate credentials")
		return
	}
	skip, limit, err := pageParams(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid query parameters"})
		return
	}
	tasks, err := h.svc.List(r.Context(), u.ID, skip, limit)
	if err != nil {
		if errors.Is(err, ErrLimitTooLarge) {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "You can not get more than 100 tasks"})
			return
		}
		h.logger.Warnw("task list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

// CreateRequest is the completed-task payload.
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Create handles POST /task.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		auth.Unauthorized(w, "Could not validate credentials")
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request body"})
		return
	}
	t := &entity.Task{UserID: u.ID, Title: req.Title, Description: req.Description}
	if req.CompletedAt != nil {
		t.CompletedAt = *req.CompletedAt
	}
	created, err := h.svc.Create(r.Context(), t)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Title is required"})
			return
		}
		h.logger.Warnw("task create failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func pageParams(r *http.Request) (skip, limit int, err error) {
	skip, limit = 0, DefaultPageSize
	q := r.URL.Query()
	if v := q.Get("skip"); v != "" {
		skip, err = strconv.Atoi(v)
		if err != nil || skip < 0 {
			return 0, 0, errors.New("invalid skip")
		}
	}
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return 0, 0, errors.New("invalid limit")
		}
	}
	return skip, limit, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
