package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careercompass/service-auth-go/internal/user/entity"
	userrepo "github.com/careercompass/service-auth-go/internal/user/repo"
	"github.com/careercompass/service-auth-go/pkg/utilities"
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, u *entity.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	ActivateByCode(ctx context.Context, email, code string) (bool, error)
}

// ActivationMailer delivers activation codes to freshly registered users.
type ActivationMailer interface {
	SendActivationCode(ctx context.Context, to, fullName, code string) error
}

// MinPasswordLength is the smallest password accepted at registration.
const MinPasswordLength = 8

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrBadCredentials   = errors.New("invalid credentials")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrPasswordTooShort = errors.New("password too short")
)

// UserService orchestrates registration, activation and password authentication.
type UserService struct {
	repo   Repository
	hasher PasswordHasher
	mailer ActivationMailer
	logger *zap.SugaredLogger
}

// NewUserService wires the service. A nil hasher falls back to bcrypt,
// a nil mailer disables activation mail, a nil logger discards logs.
func NewUserService(r Repository, hasher PasswordHasher, mailer ActivationMailer, logger *zap.SugaredLogger) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UserService{repo: r, hasher: hasher, mailer: mailer, logger: logger}
}

// Register creates an inactive account with a fresh activation code and
// mails the code to the new address. Mail delivery is best effort: a
// failure is logged and does not fail the registration.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:          email,
		PasswordHash:   hash,
		FullName:       strings.TrimSpace(fullName),
		IsActive:       false,
		ActivationCode: utilities.NewActivationCode(),
	}
	if _, err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if s.mailer != nil {
		if err := s.mailer.SendActivationCode(ctx, u.Email, u.FullName, u.ActivationCode); err != nil {
			s.logger.Warnw("activation mail not sent", "email", u.Email, "err", err)
		}
	}
	return u, nil
}

// Activate flips the account active when the (email, code) pair matches.
// Re-activating an already active account with its correct code still
// reports success; a wrong code or unknown email reports failure.
func (s *UserService) Activate(ctx context.Context, email, code string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return false, nil
	}
	flipped, err := s.repo.ActivateByCode(ctx, email, code)
	if err != nil {
		return false, err
	}
	if flipped {
		return true, nil
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsActive && ConstantTimeCompare(u.ActivationCode, code), nil
}

// Authenticate verifies an email/password pair and returns the account.
// Unknown email and wrong password are indistinguishable to the caller
// to avoid user enumeration.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrBadCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" || !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// ByEmail fetches the account behind a token subject.
func (s *UserService) ByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// EnsureOAuthUser returns the account for a provider-verified email,
// creating it active on first sign-in. Provider accounts carry no usable
// password, so password login stays rejected for them.
func (s *UserService) EnsureOAuthUser(ctx context.Context, email, fullName string) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, userrepo.ErrNotFound) {
		return nil, err
	}
	nu := &entity.User{
		Email:          email,
		FullName:       strings.TrimSpace(fullName),
		IsActive:       true,
		ActivationCode: utilities.NewActivationCode(),
	}
	if _, err := s.repo.Create(ctx, nu); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			// lost a create race, the row exists now
			return s.ByEmail(ctx, email)
		}
		return nil, err
	}
	return nu, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ConstantTimeCompare helper for code and secret equality checks.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
