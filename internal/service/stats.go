// Package service composes repository reads into the view models served
// to the dashboards, and publishes workflow notifications.
package service

import (
	"context"
	"math"
	"time"

	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/repository"
)

// RecentActivityLimit is the number of logins shown in user stats.
const RecentActivityLimit = 5

// DashboardHistoryLimit is the number of attendance records on the
// moderator dashboard.
const DashboardHistoryLimit = 7

// StatsReader is the subset of StatsRepo used here.
type StatsReader interface {
	AttendanceDaysBetween(ctx context.Context, userID uint64, from, to string) (map[string]bool, error)
}

// LoginHistory is the subset of LoginLogRepo used here.
type LoginHistory interface {
	History(ctx context.Context, userID uint64, limit int) ([]model.LoginLog, error)
}

// Stats builds per-user summaries.  Loc is the business timezone and Now
// the clock deciding "today".
type Stats struct {
	Stats  StatsReader
	Logins LoginHistory
	Loc    *time.Location
	Now    func() time.Time
}

func NewStats(stats StatsReader, logins LoginHistory, loc *time.Location) *Stats {
	if loc == nil {
		loc = time.UTC
	}
	return &Stats{Stats: stats, Logins: logins, Loc: loc, Now: repository.SystemClock}
}

// UserStats summarises the current month for one user.
func (s *Stats) UserStats(ctx context.Context, userID uint64) (model.UserStats, error) {
	now := s.Now().In(s.Loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.Loc)

	days, err := s.Stats.AttendanceDaysBetween(ctx, userID, first.Format(dayLayout), now.Format(dayLayout))
	if err != nil {
		return model.UserStats{}, err
	}
	recent, err := s.Logins.History(ctx, userID, RecentActivityLimit)
	if err != nil {
		return model.UserStats{}, err
	}
	working := WorkingDaysElapsed(now)
	return model.UserStats{
		PresentDays:    len(days),
		WorkingDays:    working,
		AttendanceRate: AttendanceRate(len(days), working),
		RecentActivity: recent,
	}, nil
}

// Week returns the Monday–Sunday strip containing today, flagging the
// days on which the user marked attendance.
func (s *Stats) Week(ctx context.Context, userID uint64) ([]model.WeekDay, error) {
	now := s.Now().In(s.Loc)
	monday := WeekStart(now)
	sunday := monday.AddDate(0, 0, 6)

	marked, err := s.Stats.AttendanceDaysBetween(ctx, userID, monday.Format(dayLayout), sunday.Format(dayLayout))
	if err != nil {
		return nil, err
	}
	return WeekCalendar(now, marked), nil
}

const dayLayout = "2006-01-02"

// WorkingDaysElapsed counts Monday–Friday days from the first of t's month
// up to and including t's day, in t's location.
func WorkingDaysElapsed(t time.Time) int {
	n := 0
	for d := 1; d <= t.Day(); d++ {
		wd := time.Date(t.Year(), t.Month(), d, 12, 0, 0, 0, t.Location()).Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// AttendanceRate is present/working as a rounded percentage.  Zero
// working days yields zero.
func AttendanceRate(present, working int) int {
	if working <= 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(working) * 100))
}

// WeekStart returns midnight of the Monday of t's week in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// WeekCalendar lays out the week containing now.  marked holds the
// YYYY-MM-DD days with attendance.
func WeekCalendar(now time.Time, marked map[string]bool) []model.WeekDay {
	monday := WeekStart(now)
	today := now.Format(dayLayout)
	out := make([]model.WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		key := d.Format(dayLayout)
		out = append(out, model.WeekDay{
			Day:           d.Format("Mon"),
			Date:          d.Day(),
			IsWeekend:     i >= 5,
			IsToday:       key == today,
			HasAttendance: marked[key],
		})
	}
	return out
}
