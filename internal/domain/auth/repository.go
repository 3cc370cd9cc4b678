package auth

import (
	"context"
	"time"
)

type PasswordReset struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

type PasswordResetRepository interface {
	Create(ctx context.Context, reset PasswordReset) error
	// Consume marks a still-valid token as used and returns it.
	Consume(ctx context.Context, tokenHash string, now time.Time) (PasswordReset, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
