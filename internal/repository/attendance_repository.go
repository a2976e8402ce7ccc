package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/workforce-portal/internal/model"
)

// Default and maximum page sizes for attendance history.
const (
	DefaultAttendanceHistory = 30
	MaxAttendanceHistory     = 366
)

// AttendanceRepo stores daily presence marks.  Loc is the business
// timezone that decides which calendar day a mark belongs to.
type AttendanceRepo struct {
	DB  *sql.DB
	Loc *time.Location
	Now Clock
}

func NewAttendanceRepo(db *sql.DB, loc *time.Location) *AttendanceRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceRepo{DB: db, Loc: loc, Now: SystemClock}
}

// MarkInput carries the client context recorded with a mark.
type MarkInput struct {
	UserID    uint64
	IPAddress string
	Location  string
	UserAgent string
}

const attendanceColumns = "id,user_id,date,attendance_day,ip_address,location,user_agent,created_at"

func scanAttendance(s rowScanner) (model.AttendanceRecord, error) {
	var (
		a        model.AttendanceRecord
		location sql.NullString
		agent    sql.NullString
	)
	if err := s.Scan(&a.ID, &a.UserID, &a.Date, &a.Day, &a.IPAddress, &location, &agent, &a.CreatedAt); err != nil {
		return a, err
	}
	a.Location = strPtr(location)
	a.UserAgent = strPtr(agent)
	return a, nil
}

// Mark records today's attendance for the user.  The insert is the only
// statement: the unique (user_id, attendance_day) key rejects a second
// mark on the same business day, which is reported as ErrAlreadyMarked.
func (r *AttendanceRepo) Mark(ctx context.Context, in MarkInput) (model.AttendanceRecord, error) {
	now := r.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO attendance_records (user_id, date, attendance_day, ip_address, location, user_agent, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		in.UserID, now, DayKey(now, r.Loc), in.IPAddress, nullString(in.Location), nullString(in.UserAgent), now)
	if err != nil {
		if isDuplicateKey(err) {
			return model.AttendanceRecord{}, ErrAlreadyMarked
		}
		return model.AttendanceRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	return r.Get(ctx, uint64(id))
}

// Get fetches one record by id.
func (r *AttendanceRepo) Get(ctx context.Context, id uint64) (model.AttendanceRecord, error) {
	a, err := scanAttendance(r.DB.QueryRowContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// GetToday returns the user's record for the current business day, or
// ErrNotFound when the user has not marked attendance yet.
func (r *AttendanceRepo) GetToday(ctx context.Context, userID uint64) (model.AttendanceRecord, error) {
	a, err := scanAttendance(r.DB.QueryRowContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records WHERE user_id=? AND attendance_day=? LIMIT 1",
		userID, DayKey(r.Now(), r.Loc)))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// History returns the user's most recent records, newest first.  A
// non-positive limit selects DefaultAttendanceHistory.
func (r *AttendanceRepo) History(ctx context.Context, userID uint64, limit int) ([]model.AttendanceRecord, error) {
	limit = limitOr(limit, DefaultAttendanceHistory, MaxAttendanceHistory)
	return r.list(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records WHERE user_id=? ORDER BY date DESC, id DESC LIMIT ?",
		userID, limit)
}

// ByDateRange returns records whose date lies in [start, end], newest
// first.  Both bounds are inclusive.
func (r *AttendanceRepo) ByDateRange(ctx context.Context, userID uint64, start, end time.Time) ([]model.AttendanceRecord, error) {
	return r.list(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records WHERE user_id=? AND date>=? AND date<=? ORDER BY date DESC, id DESC",
		userID, start.UTC(), end.UTC())
}

func (r *AttendanceRepo) list(ctx context.Context, q string, args ...any) ([]model.AttendanceRecord, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AttendanceRecord{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
