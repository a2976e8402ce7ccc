package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workforce-portal/internal/database"
	"github.com/iliyamo/workforce-portal/internal/model"
)

func TestTokenRepo_Lifecycle(t *testing.T) {
	db := database.SetupTestDB(t)
	clock := newTestClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	repo := NewTokenRepo(db)
	repo.Now = clock.Now
	ctx := context.Background()

	u := createUser(t, db, "mod@example.com", model.RoleModerator)
	owner := RefreshOwner{UserID: u.ID, LoginLogID: 42}

	require.NoError(t, repo.StoreRefresh(ctx, owner, "hash-a", clock.Now().Add(time.Hour)))

	got, err := repo.ValidateRefresh(ctx, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	require.NoError(t, repo.RevokeByHash(ctx, "hash-a"))
	_, err = repo.ValidateRefresh(ctx, "hash-a")
	assert.ErrorIs(t, err, ErrNotFound, "revoked token is invalid")
	assert.ErrorIs(t, repo.RevokeByHash(ctx, "hash-a"), ErrNotFound, "second revoke reports reuse")
}

func TestTokenRepo_ExpiryAndRevokeAll(t *testing.T) {
	db := database.SetupTestDB(t)
	clock := newTestClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	repo := NewTokenRepo(db)
	repo.Now = clock.Now
	ctx := context.Background()

	u := createUser(t, db, "mod@example.com", model.RoleModerator)
	require.NoError(t, repo.StoreRefresh(ctx, RefreshOwner{UserID: u.ID}, "short", clock.Now().Add(time.Minute)))
	require.NoError(t, repo.StoreRefresh(ctx, RefreshOwner{UserID: u.ID}, "long", clock.Now().Add(24*time.Hour)))

	owner, err := repo.ValidateRefresh(ctx, "long")
	require.NoError(t, err)
	assert.Zero(t, owner.LoginLogID)

	clock.Advance(2 * time.Minute)
	_, err = repo.ValidateRefresh(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound, "expired token is invalid")

	require.NoError(t, repo.RevokeAllForUser(ctx, u.ID))
	_, err = repo.ValidateRefresh(ctx, "long")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.ValidateRefresh(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}
