package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 24 * time.Hour

type AuthServiceImpl struct {
	user.UserRepository
	auth.PasswordResetRepository
	jwt.Service
	email.EmailService
	frontendURL string
	now         func() time.Time
}

func NewAuthService(userRepository user.UserRepository, resetRepository auth.PasswordResetRepository, jwtService jwt.Service, emailService email.EmailService, frontendURL string) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:          userRepository,
		PasswordResetRepository: resetRepository,
		Service:                 jwtService,
		EmailService:            emailService,
		frontendURL:             strings.TrimRight(frontendURL, "/"),
		now:                     time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	var resp auth.TokenResponse
	resp.AccessToken = token
	resp.TokenType = "Bearer"
	resp.ExpiresAt = expiresAt
	resp.User.ID = userData.ID
	resp.User.Name = userData.Name
	resp.User.Email = userData.Email
	resp.User.Role = string(userData.Role)

	slog.Info("User logged in", "user_id", userData.ID)
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	parsed, err := a.Service.JWTAuth().Decode(token)
	if err != nil {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token, parsed.Expiration().Unix())
	return nil
}

// ChangePassword implements auth.AuthService.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, principal user.Principal, req auth.ChangePasswordRequest) error {
	if err := user.Authorize(principal, user.PermissionEditOwnProfile); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrWrongPassword
	}

	hash, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := a.UserRepository.UpdatePassword(ctx, principal.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("Password changed", "user_id", principal.ID)
	return nil
}

// ForgotPassword implements auth.AuthService. Unknown emails succeed silently.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Info("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	expiresAt := a.now().Add(resetTokenTTL)

	if err := a.PasswordResetRepository.Create(ctx, auth.PasswordReset{
		TokenHash: hashToken(token),
		UserID:    userData.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := a.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := a.EmailService.SendPasswordReset(userData.Email, link, expiresAt); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	reset, err := a.PasswordResetRepository.Consume(ctx, hashToken(req.Token), a.now())
	if err != nil {
		if errors.Is(err, auth.ErrResetTokenInvalid) {
			return err
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := a.UserRepository.UpdatePassword(ctx, reset.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("Password reset", "user_id", reset.UserID)
	return nil
}

// PurgeExpiredResets implements auth.AuthService.
func (a *AuthServiceImpl) PurgeExpiredResets(ctx context.Context) (int64, error) {
	n, err := a.PasswordResetRepository.DeleteExpired(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge password resets: %w", err)
	}
	return n, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
