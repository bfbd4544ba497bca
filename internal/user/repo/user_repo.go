package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/careercompass/service-auth-go/internal/user/entity"
)

var (
	// ErrDuplicateEmail reports an insert rejected by the unique
	// constraint on users.email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound reports a lookup that matched no row.
	ErrNotFound = errors.New("user not found")
)

// UserRepo provides data access for the users table using sqlx.
// Schema lives in internal/migrations and is applied on startup.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, password_hash, full_name, is_active, activation_code, created_at, updated_at`

// Create inserts a new user row. Returns new ID.
// A unique violation on email maps to ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (int64, error) {
	q := `INSERT INTO users (email, password_hash, full_name, is_active, activation_code)
	      VALUES (:email, :password_hash, :full_name, :is_active, :activation_code) RETURNING id`
	stmt, err := r.db.NamedQueryContext(ctx, q, u)
	if err != nil {
		return 0, translate(err)
	}
	defer stmt.Close()
	if stmt.Next() {
		if err := stmt.Scan(&u.ID); err != nil {
			return 0, err
		}
		return u.ID, nil
	}
	return 0, errors.New("no id returned")
}

// GetByEmail returns a user matched by email (case-insensitive due to citext) or ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// GetByID fetches a full user row or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ActivateByCode flips is_active on the row matching the (email, code)
// pair. Returns true only when this call performed the flip, so the flip
// happens at most once per account.
func (r *UserRepo) ActivateByCode(ctx context.Context, email, code string) (bool, error) {
	const q = `UPDATE users SET is_active=true, updated_at=NOW()
	           WHERE email=$1 AND activation_code=$2 AND NOT is_active RETURNING 1`
	var one int
	err := r.db.GetContext(ctx, &one, q, email, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// translate maps driver-level errors to repo sentinels.
func translate(err error) error {
	var pqErr *pq.Error
	// 23505 = unique_violation
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}
