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

func TestAdminActionRepository_LogAndList(t *testing.T) {
	db := database.SetupTestDB(t)
	clock := newTestClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	repo := NewAdminActionRepo(db)
	repo.Now = clock.Now
	ctx := context.Background()

	admin := createUser(t, db, "admin@example.com", model.RoleAdmin)
	mod := createUser(t, db, "mod@example.com", model.RoleModerator)

	first, err := repo.Log(ctx, NewAdminAction{AdminID: admin.ID, Action: "schedule.create"})
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := repo.Log(ctx, NewAdminAction{
		AdminID:      admin.ID,
		Action:       "user.status",
		TargetUserID: &mod.ID,
		Details:      `{"isActive":false}`,
		IPAddress:    "10.1.1.1",
	})
	require.NoError(t, err)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].ID)
	assert.Equal(t, first, all[1].ID)
	assert.Equal(t, "unknown", all[1].IPAddress, "missing ip is recorded as unknown")
	assert.Nil(t, all[1].TargetUserID)
	assert.Nil(t, all[1].Details)

	targeted, err := repo.ListByTarget(ctx, mod.ID, 10)
	require.NoError(t, err)
	require.Len(t, targeted, 1)
	assert.Equal(t, "user.status", targeted[0].Action)
	require.NotNil(t, targeted[0].Details)
	assert.Equal(t, `{"isActive":false}`, *targeted[0].Details)
	assert.Equal(t, "10.1.1.1", targeted[0].IPAddress)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
