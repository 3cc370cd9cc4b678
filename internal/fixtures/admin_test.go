package fixtures

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/leave-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBootstrapper struct {
	calls [][3]string
}

func (r *recordingBootstrapper) EnsureAdmin(ctx context.Context, name, email, password string) error {
	r.calls = append(r.calls, [3]string{name, email, password})
	return nil
}

func TestSeedAdmin(t *testing.T) {
	b := &recordingBootstrapper{}

	require.NoError(t, SeedAdmin(context.Background(), b, config.AdminConfig{}))
	assert.Empty(t, b.calls)

	require.NoError(t, SeedAdmin(context.Background(), b, config.AdminConfig{
		Name:     "Administrator",
		Email:    "admin@example.com",
		Password: "secret1",
	}))
	assert.Equal(t, [][3]string{{"Administrator", "admin@example.com", "secret1"}}, b.calls)
}
