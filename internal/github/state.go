package github

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"
)

// The state round-tripped through GitHub is a short-lived signed token,
// so no server-side session is needed to validate the callback.
const (
	stateAudience = "github-oauth"
	stateTTL      = 10 * time.Minute
)

var errBadState = errors.New("invalid state")

func (h *Handler) newState() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{stateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		ID:        ksuid.New().String(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.stateSecret)
}

func (h *Handler) verifyState(state string) error {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(state, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.stateSecret, nil
	}, jwt.WithAudience(stateAudience))
	if err != nil || !parsed.Valid {
		return errBadState
	}
	return nil
}
