package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/workforce-portal/internal/model"
)

// StatsRepo computes dashboard aggregates.  Nothing is cached; every call
// reads the current rows.
type StatsRepo struct {
	DB  *sql.DB
	Loc *time.Location
	Now Clock
}

func NewStatsRepo(db *sql.DB, loc *time.Location) *StatsRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsRepo{DB: db, Loc: loc, Now: SystemClock}
}

// ModeratorStats counts moderator accounts by status.
func (r *StatsRepo) ModeratorStats(ctx context.Context) (model.ModeratorStats, error) {
	var s model.ModeratorStats
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0)
		 FROM users WHERE role=?`, model.RoleModerator).Scan(&s.Total, &s.Active)
	if err != nil {
		return s, err
	}
	s.Inactive = s.Total - s.Active
	return s, nil
}

// AttendanceStats counts marks for the current business day and overall.
func (r *StatsRepo) AttendanceStats(ctx context.Context) (model.DailyCount, error) {
	var c model.DailyCount
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN attendance_day=? THEN 1 ELSE 0 END), 0), COUNT(*)
		 FROM attendance_records`, DayKey(r.Now(), r.Loc)).Scan(&c.Today, &c.Total)
	return c, err
}

// LoginStats counts logins that started during the current business day
// and overall.
func (r *StatsRepo) LoginStats(ctx context.Context) (model.DailyCount, error) {
	start, end := DayBounds(r.Now(), r.Loc)
	var c model.DailyCount
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN login_time>=? AND login_time<? THEN 1 ELSE 0 END), 0), COUNT(*)
		 FROM login_logs`, start, end).Scan(&c.Today, &c.Total)
	return c, err
}

// AttendanceDaysBetween returns the business days (YYYY-MM-DD) on which
// the user marked attendance, for days in [from, to] inclusive.
func (r *StatsRepo) AttendanceDaysBetween(ctx context.Context, userID uint64, from, to string) (map[string]bool, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT attendance_day FROM attendance_records WHERE user_id=? AND attendance_day>=? AND attendance_day<=?",
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := map[string]bool{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days[d] = true
	}
	return days, rows.Err()
}
