package auth

import (
	"context"

	"github.com/careercompass/service-auth-go/internal/user/entity"
)

type userKey struct{}

// WithUser returns a context carrying the authenticated account.
func WithUser(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom extracts the account stashed by the bearer middleware.
func UserFrom(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(userKey{}).(*entity.User)
	return u, ok
}
