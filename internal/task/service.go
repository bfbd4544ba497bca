package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/careercompass/service-auth-go/internal/task/entity"
)

const (
	// DefaultPageSize applies when a list request names no limit.
	DefaultPageSize = 10
	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 100
)

var (
	ErrLimitTooLarge = errors.New("limit too large")
	ErrTitleRequired = errors.New("title required")
)

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, t *entity.Task) (int64, error)
	ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*entity.Task, error)
}

// TaskService encapsulates business logic for completed tasks.
type TaskService struct {
	repo Repository
}

func NewTaskService(r Repository) *TaskService { return &TaskService{repo: r} }

// List returns a page of the user's completed tasks.
func (s *TaskService) List(ctx context.Context, userID int64, skip, limit int) ([]*entity.Task, error) {
	if limit > MaxPageSize {
		return nil, ErrLimitTooLarge
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.ListByUser(ctx, userID, skip, limit)
}

// Create records a completed task for the user. It applies sensible
// defaults when fields are omitted.
func (s *TaskService) Create(ctx context.Context, t *entity.Task) (*entity.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return nil, ErrTitleRequired
	}
	if t.CompletedAt.IsZero() {
		t.CompletedAt = time.Now().UTC()
	}
	if _, err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
