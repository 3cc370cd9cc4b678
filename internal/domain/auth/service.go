package auth

import (
	"context"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, principal user.Principal, req ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	PurgeExpiredResets(ctx context.Context) (int64, error)
}
