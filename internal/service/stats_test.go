package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workforce-portal/internal/model"
)

type fakeStatsReader struct {
	days     map[string]bool
	from, to string
	err      error
}

func (f *fakeStatsReader) AttendanceDaysBetween(_ context.Context, _ uint64, from, to string) (map[string]bool, error) {
	f.from, f.to = from, to
	return f.days, f.err
}

type fakeLoginHistory struct {
	logs  []model.LoginLog
	limit int
}

func (f *fakeLoginHistory) History(_ context.Context, _ uint64, limit int) ([]model.LoginLog, error) {
	f.limit = limit
	return f.logs, nil
}

func fixedNow(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestWorkingDaysElapsed(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		want int
	}{
		{"month starts on weekend", time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC), 0},
		{"first monday", time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), 1},
		{"second monday", time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), 6},
		{"full month", time.Date(2025, 3, 31, 10, 0, 0, 0, time.UTC), 21},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WorkingDaysElapsed(tc.at))
		})
	}
}

func TestAttendanceRate(t *testing.T) {
	assert.Equal(t, 0, AttendanceRate(0, 0))
	assert.Equal(t, 0, AttendanceRate(3, -1))
	assert.Equal(t, 67, AttendanceRate(2, 3))
	assert.Equal(t, 33, AttendanceRate(1, 3))
	assert.Equal(t, 100, AttendanceRate(6, 6))
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 7; d++ {
		at := monday.AddDate(0, 0, d).Add(15 * time.Hour)
		assert.Equal(t, monday, WeekStart(at), at.Weekday().String())
	}
}

func TestWeekCalendar(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC) // Wednesday
	week := WeekCalendar(now, map[string]bool{"2025-03-10": true, "2025-03-12": true})

	require.Len(t, week, 7)
	assert.Equal(t, model.WeekDay{Day: "Mon", Date: 10, HasAttendance: true}, week[0])
	assert.Equal(t, model.WeekDay{Day: "Wed", Date: 12, IsToday: true, HasAttendance: true}, week[2])
	assert.Equal(t, model.WeekDay{Day: "Sat", Date: 15, IsWeekend: true}, week[5])
	assert.Equal(t, model.WeekDay{Day: "Sun", Date: 16, IsWeekend: true}, week[6])
}

func TestStats_UserStats(t *testing.T) {
	reader := &fakeStatsReader{days: map[string]bool{"2025-03-03": true, "2025-03-04": true, "2025-03-10": true}}
	logins := &fakeLoginHistory{logs: []model.LoginLog{{ID: 2}, {ID: 1}}}
	s := NewStats(reader, logins, time.UTC)
	s.Now = fixedNow(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	got, err := s.UserStats(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", reader.from)
	assert.Equal(t, "2025-03-10", reader.to)
	assert.Equal(t, RecentActivityLimit, logins.limit)
	assert.Equal(t, 3, got.PresentDays)
	assert.Equal(t, 6, got.WorkingDays)
	assert.Equal(t, 50, got.AttendanceRate)
	assert.Len(t, got.RecentActivity, 2)
}

func TestStats_UserStatsBusinessTimezone(t *testing.T) {
	// 22:00 UTC on the last day of February is already March 1st at UTC+3.
	reader := &fakeStatsReader{days: map[string]bool{}}
	s := NewStats(reader, &fakeLoginHistory{}, time.FixedZone("UTC+3", 3*3600))
	s.Now = fixedNow(time.Date(2025, 2, 28, 22, 0, 0, 0, time.UTC))

	got, err := s.UserStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", reader.from)
	assert.Equal(t, "2025-03-01", reader.to)
	assert.Equal(t, 0, got.WorkingDays)
	assert.Equal(t, 0, got.AttendanceRate)
}

func TestStats_Week(t *testing.T) {
	reader := &fakeStatsReader{days: map[string]bool{"2025-03-11": true}}
	s := NewStats(reader, &fakeLoginHistory{}, nil)
	s.Now = fixedNow(time.Date(2025, 3, 16, 20, 0, 0, 0, time.UTC)) // Sunday

	week, err := s.Week(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", reader.from)
	assert.Equal(t, "2025-03-16", reader.to)
	require.Len(t, week, 7)
	assert.True(t, week[1].HasAttendance)
	assert.True(t, week[6].IsToday)

	reader.err = errors.New("boom")
	_, err = s.Week(context.Background(), 7)
	assert.Error(t, err)
}
