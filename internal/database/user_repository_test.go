package database

import (
	"context"
	"testing"

	"schedulsy-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &models.User{ID: "u-1", Email: "  Ada@Example.com ", Name: "Ada Lovelace", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.Equal(t, "ada@example.com", user.Email)

	byEmail, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.Equal(t, "u-1", byEmail.ID)

	byID, err := repo.FindByID(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", byID.Name)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.User{ID: "u-1", Email: "ada@example.com", Password: "hash"}))
	err := repo.Create(ctx, &models.User{ID: "u-2", Email: "ADA@example.com", Password: "hash"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.FindByID(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.FindByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}
