package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/careercompass/service-auth-go/internal/user/entity"
	userrepo "github.com/careercompass/service-auth-go/internal/user/repo"
)

type fakeRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	nextID int64

	createErr error
	getErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*entity.User{}}
}

func (f *fakeRepo) Create(_ context.Context, u *entity.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, ok := f.users[u.Email]; ok {
		return 0, userrepo.ErrDuplicateEmail
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.Email] = &cp
	return u.ID, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userrepo.ErrNotFound
}

func (f *fakeRepo) ActivateByCode(_ context.Context, email, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || u.IsActive || u.ActivationCode != code {
		return false, nil
	}
	u.IsActive = true
	return true, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendActivationCode(_ context.Context, to, _, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+":"+code)
	return nil
}

func newTestService(r Repository, m ActivationMailer) *UserService {
	return NewUserService(r, BcryptHasher{Cost: bcrypt.MinCost}, m, nil)
}

func TestRegister(t *testing.T) {
	repo := newFakeRepo()
	mail := &fakeMailer{}
	svc := newTestService(repo, mail)

	email := strings.ToLower(gofakeit.Email())
	u, err := svc.Register(context.Background(), email, "long-enough-pw", "Test User")
	require.NoError(t, err)

	assert.Equal(t, email, u.Email)
	assert.False(t, u.IsActive)
	assert.NotEmpty(t, u.ActivationCode)
	assert.NotEqual(t, "long-enough-pw", u.PasswordHash)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, email+":"+u.ActivationCode, mail.sent[0])
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	u, err := svc.Register(context.Background(), "  Bob@Example.COM ", "long-enough-pw", "")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	email := strings.ToLower(gofakeit.Email())
	_, err := svc.Register(context.Background(), email, "long-enough-pw", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), email, "other-password", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	_, err := svc.Register(context.Background(), "not-an-email", "long-enough-pw", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(context.Background(), "", "long-enough-pw", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(context.Background(), gofakeit.Email(), "short", "")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	repo := newFakeRepo()
	mail := &fakeMailer{err: errors.New("smtp down")}
	svc := newTestService(repo, mail)

	u, err := svc.Register(context.Background(), gofakeit.Email(), "long-enough-pw", "")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
}

func TestActivate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	email := strings.ToLower(gofakeit.Email())
	u, err := svc.Register(context.Background(), email, "long-enough-pw", "")
	require.NoError(t, err)

	ok, err := svc.Activate(context.Background(), email, "wrong-code")
	require.NoError(t, err)
	assert.False(t, ok, "wrong code must fail")

	ok, err = svc.Activate(context.Background(), email, u.ActivationCode)
	require.NoError(t, err)
	assert.True(t, ok, "correct code must succeed")

	stored, err := repo.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)

	// repeating with the correct code stays successful
	ok, err = svc.Activate(context.Background(), email, u.ActivationCode)
	require.NoError(t, err)
	assert.True(t, ok)

	// but a wrong code still fails after activation
	ok, err = svc.Activate(context.Background(), email, "wrong-code")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActivateUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	ok, err := svc.Activate(context.Background(), "ghost@example.com", "any")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	email := strings.ToLower(gofakeit.Email())
	password := gofakeit.Password(true, true, true, false, false, 16)
	_, err := svc.Register(context.Background(), email, password, "")
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), email, password)
	require.NoError(t, err)
	assert.Equal(t, email, u.Email)

	_, err = svc.Authenticate(context.Background(), email, "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Authenticate(context.Background(), "ghost@example.com", password)
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Authenticate(context.Background(), email, "")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticateRejectsPasswordlessAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	u, err := svc.EnsureOAuthUser(context.Background(), gofakeit.Email(), "Via Provider")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), u.Email, "anything-at-all")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestEnsureOAuthUser(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	email := strings.ToLower(gofakeit.Email())
	u, err := svc.EnsureOAuthUser(context.Background(), email, "Octo Cat")
	require.NoError(t, err)
	assert.True(t, u.IsActive, "provider-verified accounts start active")
	assert.Empty(t, u.PasswordHash)

	again, err := svc.EnsureOAuthUser(context.Background(), email, "Renamed Later")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "Octo Cat", again.FullName, "existing account is kept as-is")
}

func TestByEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	_, err := svc.ByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	email := strings.ToLower(gofakeit.Email())
	_, err = svc.Register(context.Background(), email, "long-enough-pw", "")
	require.NoError(t, err)

	u, err := svc.ByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, email, u.Email)
}
