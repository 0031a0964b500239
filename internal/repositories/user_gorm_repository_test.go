package repositories_test

import (
	"context"
	"errors"
	"testing"

	"juicebox/internal/apperror"
	"juicebox/internal/models"
	"juicebox/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "albert", Password: "$2a$10$hashedsecret", Name: "Al Bert", Active: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "albert")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Al Bert", byID.Name)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = repo.GetByID(ctx, 999)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestGORMUserRepository_Create_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	seedUser(t, db, "sandra")

	err := repo.Create(context.Background(), &models.User{Username: "sandra", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestGORMUserRepository_GetAll(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	seedUser(t, db, "albert")
	seedUser(t, db, "sandra")
	seedUser(t, db, "glamgal")

	users, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "albert", users[0].Username)
	assert.Equal(t, "glamgal", users[2].Username)
}

func TestGORMUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "glamgal")

	updated, err := repo.Update(ctx, user.ID, models.UserPatch{Location: strPtr("Upper East Side"), Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Upper East Side", updated.Location)
	assert.False(t, updated.Active)
	assert.Equal(t, user.Name, updated.Name)

	// An empty patch just reads the user back
	same, err := repo.Update(ctx, user.ID, models.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)

	_, err = repo.Update(ctx, 999, models.UserPatch{Name: strPtr("ghost")})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = repo.Update(ctx, 999, models.UserPatch{})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
