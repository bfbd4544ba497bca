package entity

import "time"

// User represents an account row in the `users` table. The password hash
// and the activation code are never serialized; HTTP responses go through
// PublicView.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	FullName       string    `db:"full_name" json:"full_name"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	ActivationCode string    `db:"activation_code" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"-"`
	UpdatedAt      time.Time `db:"updated_at" json:"-"`
}

// PublicView is the minimal projection exposed by the HTTP layer.
type PublicView struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// Public returns the externally visible projection of u.
func (u *User) Public() PublicView {
	return PublicView{ID: u.ID, Email: u.Email, FullName: u.FullName, IsActive: u.IsActive}
}
