package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workforce-portal/internal/database"
	"github.com/iliyamo/workforce-portal/internal/model"
)

func TestStatsRepository_TodayAndTotal(t *testing.T) {
	db := database.SetupTestDB(t)
	ctx := context.Background()
	clock := newTestClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	attendance := NewAttendanceRepo(db, time.UTC)
	attendance.Now = clock.Now
	logins := NewLoginLogRepo(db)
	logins.Now = clock.Now
	stats := NewStatsRepo(db, time.UTC)
	stats.Now = clock.Now

	var users []model.User
	for i := 0; i < 3; i++ {
		users = append(users, createUser(t, db, fmt.Sprintf("m%d@example.com", i), model.RoleModerator))
	}

	// Eight marks on earlier days, three today.
	for day := 0; day < 3; day++ {
		for _, u := range users {
			if day == 2 && u.ID == users[2].ID {
				continue
			}
			_, err := attendance.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
			require.NoError(t, err)
			_, err = logins.Create(ctx, NewLoginLog{UserID: u.ID, IPAddress: "10.0.0.1"})
			require.NoError(t, err)
		}
		clock.Advance(24 * time.Hour)
	}
	for _, u := range users {
		_, err := attendance.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
		require.NoError(t, err)
		_, err = logins.Create(ctx, NewLoginLog{UserID: u.ID, IPAddress: "10.0.0.1"})
		require.NoError(t, err)
	}

	a, err := stats.AttendanceStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DailyCount{Today: 3, Total: 11}, a)

	l, err := stats.LoginStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DailyCount{Today: 3, Total: 11}, l)
}

func TestStatsRepository_ModeratorStats(t *testing.T) {
	db := database.SetupTestDB(t)
	ctx := context.Background()
	stats := NewStatsRepo(db, nil)

	empty, err := stats.ModeratorStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ModeratorStats{}, empty)

	createUser(t, db, "admin@example.com", model.RoleAdmin)
	createUser(t, db, "a@example.com", model.RoleModerator)
	b := createUser(t, db, "b@example.com", model.RoleModerator)
	require.NoError(t, NewUserRepo(db).UpdateStatus(ctx, b.ID, false))

	s, err := stats.ModeratorStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ModeratorStats{Total: 2, Active: 1, Inactive: 1}, s)
}

func TestStatsRepository_AttendanceDaysBetween(t *testing.T) {
	db := database.SetupTestDB(t)
	ctx := context.Background()
	clock := newTestClock(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))
	attendance := NewAttendanceRepo(db, time.UTC)
	attendance.Now = clock.Now
	stats := NewStatsRepo(db, time.UTC)

	u := createUser(t, db, "mod@example.com", model.RoleModerator)
	for i := 0; i < 3; i++ {
		_, err := attendance.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
		require.NoError(t, err)
		clock.Advance(48 * time.Hour)
	}

	days, err := stats.AttendanceDaysBetween(ctx, u.ID, "2025-03-03", "2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"2025-03-03": true, "2025-03-05": true}, days)
}
