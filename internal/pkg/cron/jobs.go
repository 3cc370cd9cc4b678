package cron

import (
	"context"
	"log/slog"
	"time"
)

// PasswordResetPurger deletes password reset tokens that can no longer be used.
type PasswordResetPurger interface {
	PurgeExpiredResets(ctx context.Context) (int64, error)
}

// RegisterPasswordResetJobs schedules the hourly purge of spent reset tokens.
func RegisterPasswordResetJobs(scheduler *Scheduler, purger PasswordResetPurger) {
	scheduler.AddJob("purge_expired_password_resets", time.Hour, func(ctx context.Context) error {
		deleted, err := purger.PurgeExpiredResets(ctx)
		if err != nil {
			return err
		}
		if deleted > 0 {
			slog.Info("Purged password reset tokens", "count", deleted)
		}
		return nil
	})
}
