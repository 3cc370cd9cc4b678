package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/database"
)

type passwordResetRepositoryImpl struct {
	db *database.DB
}

func NewPasswordResetRepository(db *database.DB) auth.PasswordResetRepository {
	return &passwordResetRepositoryImpl{db: db}
}

// Create implements auth.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) Create(ctx context.Context, reset auth.PasswordReset) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO password_resets (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := q.Exec(ctx, query, reset.TokenHash, reset.UserID, reset.ExpiresAt)
	return err
}

// Consume implements auth.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) Consume(ctx context.Context, tokenHash string, now time.Time) (auth.PasswordReset, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE password_resets
		SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2
		RETURNING token_hash, user_id, expires_at, used_at, created_at
	`

	var reset auth.PasswordReset
	err := q.QueryRow(ctx, query, tokenHash, now).Scan(
		&reset.TokenHash,
		&reset.UserID,
		&reset.ExpiresAt,
		&reset.UsedAt,
		&reset.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return auth.PasswordReset{}, auth.ErrResetTokenInvalid
		}
		return auth.PasswordReset{}, err
	}
	return reset, nil
}

// DeleteExpired implements auth.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM password_resets WHERE expires_at <= $1 OR used_at IS NOT NULL`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
