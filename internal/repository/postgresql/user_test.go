package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/leave-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "Alice", "alice@example.com")

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)
	assert.Equal(t, user.RoleUser, byID.Role)

	_, err = repo.GetByID(ctx, newID(t))
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewUserRepository(db)
	createTestUser(t, db, "Alice", "alice@example.com")

	_, err := repo.Create(context.Background(), user.User{
		ID:           newID(t),
		Name:         "Other Alice",
		Email:        "Alice@Example.com",
		PasswordHash: "hash",
		Role:         user.RoleUser,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "Alice", "alice@example.com")

	name := "Alice Cooper"
	role := "ADMIN"
	days := 5
	updated, err := repo.Update(ctx, user.UpdateUserRequest{ID: alice.ID, Name: &name, Role: &role, RemainingDays: &days})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, user.RoleAdmin, updated.Role)
	require.NotNil(t, updated.RemainingDays)
	assert.Equal(t, 5, *updated.RemainingDays)

	require.NoError(t, repo.UpdatePassword(ctx, alice.ID, "new-hash"))
	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID), user.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "not-a-uuid"), user.ErrUserNotFound)
}
