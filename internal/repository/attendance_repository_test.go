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

func newAttendanceFixture(t *testing.T, loc *time.Location, start time.Time) (*AttendanceRepo, *testClock, model.User) {
	t.Helper()
	db := database.SetupTestDB(t)
	clock := newTestClock(start)
	repo := NewAttendanceRepo(db, loc)
	repo.Now = clock.Now
	u := createUser(t, db, "mod@example.com", model.RoleModerator)
	return repo, clock, u
}

func TestAttendanceRepository_MarkOncePerDay(t *testing.T) {
	repo, clock, u := newAttendanceFixture(t, time.UTC, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	rec, err := repo.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1", Location: "Berlin", UserAgent: "curl"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", rec.Day)
	assert.Equal(t, "10.0.0.1", rec.IPAddress)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "Berlin", *rec.Location)

	clock.Advance(10 * time.Hour)
	_, err = repo.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
	assert.ErrorIs(t, err, ErrAlreadyMarked, "second mark on the same day must fail")

	clock.Advance(6 * time.Hour) // 2025-03-11 00:00
	next, err := repo.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.2"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", next.Day)
	assert.Nil(t, next.Location)
}

func TestAttendanceRepository_BusinessTimezone(t *testing.T) {
	// 23:30 UTC is already the next day at UTC+2.
	loc := time.FixedZone("UTC+2", 2*3600)
	repo, clock, u := newAttendanceFixture(t, loc, time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC))
	ctx := context.Background()

	rec, err := repo.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", rec.Day)

	clock.Advance(time.Hour) // 22:30 UTC = 00:30 local
	_, err = repo.GetToday(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound, "a new local day has started")

	_, err = repo.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
	assert.NoError(t, err)
}

func TestAttendanceRepository_GetToday(t *testing.T) {
	repo, _, u := newAttendanceFixture(t, time.UTC, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := repo.GetToday(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	marked, err := repo.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	got, err := repo.GetToday(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, marked.ID, got.ID)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttendanceRepository_HistoryNewestFirst(t *testing.T) {
	repo, clock, u := newAttendanceFixture(t, time.UTC, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}

	recs, err := repo.History(ctx, u.ID, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "2025-03-05", recs[0].Day)
	assert.Equal(t, "2025-03-04", recs[1].Day)
	assert.Equal(t, "2025-03-03", recs[2].Day)

	all, err := repo.History(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5, "non-positive limit uses the default")
}

func TestAttendanceRepository_ByDateRangeInclusive(t *testing.T) {
	repo, clock, u := newAttendanceFixture(t, time.UTC, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	var marks []model.AttendanceRecord
	for i := 0; i < 4; i++ {
		rec, err := repo.Mark(ctx, MarkInput{UserID: u.ID, IPAddress: "10.0.0.1"})
		require.NoError(t, err)
		marks = append(marks, rec)
		clock.Advance(24 * time.Hour)
	}

	// Bounds land exactly on the second and third marks.
	recs, err := repo.ByDateRange(ctx, u.ID, marks[1].Date, marks[2].Date)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, marks[2].ID, recs[0].ID)
	assert.Equal(t, marks[1].ID, recs[1].ID)

	none, err := repo.ByDateRange(ctx, u.ID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}
