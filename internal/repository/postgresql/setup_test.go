package postgresql_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-backend-go/internal/repository/postgresql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const migrationsSource = "file://../../../migrations"

var (
	setupOnce sync.Once
	testDB    *database.DB
	setupErr  error
)

// openTestDB connects to TEST_DATABASE_URL, applies migrations once and
// empties every table. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	setupOnce.Do(func() {
		m, err := migrate.New(migrationsSource, dsn)
		if err != nil {
			setupErr = err
			return
		}
		defer m.Close()
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			setupErr = err
			return
		}
		testDB, setupErr = database.NewPostgreSQLDB(context.Background(), dsn)
	})
	require.NoError(t, setupErr)

	_, err := testDB.Exec(context.Background(), "TRUNCATE TABLE password_resets, leaves, users CASCADE")
	require.NoError(t, err)
	return testDB
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func createTestUser(t *testing.T, db *database.DB, name, email string) user.User {
	t.Helper()
	created, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		ID:           newID(t),
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         user.RoleUser,
	})
	require.NoError(t, err)
	return created
}
