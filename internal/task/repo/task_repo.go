package repo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/careercompass/service-auth-go/internal/task/entity"
)

// TaskRepo provides data access for the completed_tasks table using sqlx.
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo { return &TaskRepo{db: db} }

const taskColumns = `id, user_id, title, description, completed_at, created_at`

// Create inserts a task row and fills in the generated fields.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) (int64, error) {
	q := `INSERT INTO completed_tasks (user_id, title, description, completed_at)
	      VALUES (:user_id, :title, :description, :completed_at) RETURNING id, created_at`
	stmt, err := r.db.NamedQueryContext(ctx, q, t)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	if stmt.Next() {
		if err := stmt.Scan(&t.ID, &t.CreatedAt); err != nil {
			return 0, err
		}
		return t.ID, nil
	}
	return 0, errors.New("no id returned")
}

// ListByUser returns a page of the user's tasks, most recently completed first.
func (r *TaskRepo) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*entity.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM completed_tasks
	           WHERE user_id=$1 ORDER BY completed_at DESC, id DESC OFFSET $2 LIMIT $3`
	tasks := []*entity.Task{}
	if err := r.db.SelectContext(ctx, &tasks, q, userID, skip, limit); err != nil {
		return nil, err
	}
	return tasks, nil
}
