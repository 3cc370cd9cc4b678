package fixtures

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/leave-backend-go/internal/config"
)

// AdminBootstrapper creates the admin account when it is missing.
type AdminBootstrapper interface {
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

// SeedAdmin makes sure the configured admin exists. It does nothing when ADMIN_EMAIL is unset.
func SeedAdmin(ctx context.Context, b AdminBootstrapper, cfg config.AdminConfig) error {
	if cfg.Email == "" {
		slog.Info("ADMIN_EMAIL not set, skipping admin bootstrap")
		return nil
	}
	return b.EnsureAdmin(ctx, cfg.Name, cfg.Email, cfg.Password)
}
