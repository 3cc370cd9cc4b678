package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]user.User
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) List(ctx context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	return newUser, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	return user.User{}, errors.New("not supported")
}

func (f *fakeUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeResetRepository struct {
	mu     sync.Mutex
	resets map[string]auth.PasswordReset
}

func (f *fakeResetRepository) Create(ctx context.Context, reset auth.PasswordReset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets[reset.TokenHash] = reset
	return nil
}

func (f *fakeResetRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (auth.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resets[tokenHash]
	if !ok || r.UsedAt != nil || !r.ExpiresAt.After(now) {
		return auth.PasswordReset{}, auth.ErrResetTokenInvalid
	}
	r.UsedAt = &now
	f.resets[tokenHash] = r
	return r, nil
}

func (f *fakeResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, r := range f.resets {
		if r.UsedAt != nil || !r.ExpiresAt.After(now) {
			delete(f.resets, k)
			n++
		}
	}
	return n, nil
}

type sentEmail struct {
	to, link  string
	expiresAt time.Time
}

type fakeEmailService struct {
	sent []sentEmail
}

func (f *fakeEmailService) SendPasswordReset(to, resetLink string, expiresAt time.Time) error {
	f.sent = append(f.sent, sentEmail{to: to, link: resetLink, expiresAt: expiresAt})
	return nil
}

type fixture struct {
	svc    *AuthServiceImpl
	users  *fakeUserRepository
	resets *fakeResetRepository
	mail   *fakeEmailService
	jwt    jwt.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUserRepository{users: map[string]user.User{
		"u-1": {ID: "u-1", Name: "Alice", Email: "alice@example.com", PasswordHash: string(hash), Role: user.RoleUser},
	}}
	resets := &fakeResetRepository{resets: map[string]auth.PasswordReset{}}
	mail := &fakeEmailService{}
	jwtService := jwt.NewJWTService("test-secret", "1h")

	svc := NewAuthService(users, resets, jwtService, mail, "http://frontend.test/").(*AuthServiceImpl)
	return fixture{svc: svc, users: users, resets: resets, mail: mail, jwt: jwtService}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.Login(ctx, auth.LoginRequest{Email: "Alice@Example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "u-1", resp.User.ID)
		assert.Equal(t, "USER", resp.User.Role)

		token, err := f.jwt.JWTAuth().Decode(resp.AccessToken)
		require.NoError(t, err)
		claims := token.PrivateClaims()
		assert.Equal(t, "u-1", claims["user_id"])
		assert.Equal(t, jwt.TokenTypeAccess, claims["type"])
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, resp.AccessToken))
	assert.True(t, f.jwt.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, f.svc.Logout(ctx, "garbage"), auth.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	alice := user.Principal{ID: "u-1", Role: user.RoleUser}

	t.Run("wrong current password", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.ChangePassword(ctx, alice, auth.ChangePasswordRequest{CurrentPassword: "bad", NewPassword: "another1"})
		assert.ErrorIs(t, err, auth.ErrWrongPassword)
	})

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.ChangePassword(ctx, alice, auth.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "another1"})
		require.NoError(t, err)

		_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "another1"})
		assert.NoError(t, err)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.ChangePassword(ctx, user.Principal{}, auth.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "another1"})
		assert.ErrorIs(t, err, user.ErrUnauthenticated)
	})
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	require.NoError(t, f.svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Email: "alice@example.com"}))
	require.Len(t, f.mail.sent, 1)
	sent := f.mail.sent[0]
	assert.Equal(t, "alice@example.com", sent.to)
	assert.Equal(t, now.Add(24*time.Hour), sent.expiresAt)
	require.True(t, strings.HasPrefix(sent.link, "http://frontend.test/reset-password?token="))

	link, err := url.Parse(sent.link)
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.Len(t, token, 64)

	// Only the hash is stored.
	_, stored := f.resets.resets[token]
	assert.False(t, stored)

	require.NoError(t, f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: token, Password: "fresh-pass"}))
	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "alice@example.com", Password: "fresh-pass"})
	assert.NoError(t, err)

	err = f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: token, Password: "fresh-pass"})
	assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Email: "ghost@example.com"}))
	assert.Empty(t, f.mail.sent)
	assert.Empty(t, f.resets.resets)
}

func TestResetPasswordExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	require.NoError(t, f.svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Email: "alice@example.com"}))
	link, err := url.Parse(f.mail.sent[0].link)
	require.NoError(t, err)

	now = now.Add(25 * time.Hour)
	err = f.svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: link.Query().Get("token"), Password: "fresh-pass"})
	assert.ErrorIs(t, err, auth.ErrResetTokenInvalid)

	n, err := f.svc.PurgeExpiredResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
