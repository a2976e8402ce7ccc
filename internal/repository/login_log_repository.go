package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/workforce-portal/internal/model"
)

const (
	DefaultLoginHistory = 50
	MaxLoginHistory     = 500
)

// LoginLogRepo records login sessions.  A log is opened at login and
// closed at logout; a row with a NULL logout_time is an open session.
type LoginLogRepo struct {
	DB  *sql.DB
	Now Clock
}

func NewLoginLogRepo(db *sql.DB) *LoginLogRepo { return &LoginLogRepo{DB: db, Now: SystemClock} }

// NewLoginLog carries the client context captured at login.
type NewLoginLog struct {
	UserID    uint64
	IPAddress string
	Location  string
	UserAgent string
}

const loginLogColumns = "id,user_id,ip_address,location,user_agent,login_time,logout_time"

func scanLoginLog(s rowScanner) (model.LoginLog, error) {
	var (
		l        model.LoginLog
		location sql.NullString
		agent    sql.NullString
		logout   sql.NullTime
	)
	if err := s.Scan(&l.ID, &l.UserID, &l.IPAddress, &location, &agent, &l.LoginTime, &logout); err != nil {
		return l, err
	}
	l.Location = strPtr(location)
	l.UserAgent = strPtr(agent)
	l.LogoutTime = timePtr(logout)
	return l, nil
}

// Create opens a login session stamped with the current time.
func (r *LoginLogRepo) Create(ctx context.Context, in NewLoginLog) (model.LoginLog, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO login_logs (user_id, ip_address, location, user_agent, login_time) VALUES (?,?,?,?,?)",
		in.UserID, in.IPAddress, nullString(in.Location), nullString(in.UserAgent), r.Now())
	if err != nil {
		return model.LoginLog{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.LoginLog{}, err
	}
	return r.Get(ctx, uint64(id))
}

// Get fetches a login log by id.
func (r *LoginLogRepo) Get(ctx context.Context, id uint64) (model.LoginLog, error) {
	l, err := scanLoginLog(r.DB.QueryRowContext(ctx,
		"SELECT "+loginLogColumns+" FROM login_logs WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	return l, err
}

// CloseSession stamps logout_time on the given log if it belongs to the
// user and is still open.  Returns ErrNotFound when nothing was closed.
func (r *LoginLogRepo) CloseSession(ctx context.Context, userID, logID uint64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE login_logs SET logout_time=? WHERE id=? AND user_id=? AND logout_time IS NULL",
		at.UTC(), logID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CloseLatestOpen closes the user's newest open session.  The target row
// is chosen inside the same statement; the derived table keeps MySQL from
// rejecting a subquery on the table being updated.
func (r *LoginLogRepo) CloseLatestOpen(ctx context.Context, userID uint64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE login_logs SET logout_time=?
		 WHERE id = (SELECT id FROM (
		     SELECT id FROM login_logs
		     WHERE user_id=? AND logout_time IS NULL
		     ORDER BY login_time DESC, id DESC LIMIT 1) AS latest)`,
		at.UTC(), userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// History returns the user's sessions, newest first.
func (r *LoginLogRepo) History(ctx context.Context, userID uint64, limit int) ([]model.LoginLog, error) {
	limit = limitOr(limit, DefaultLoginHistory, MaxLoginHistory)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+loginLogColumns+" FROM login_logs WHERE user_id=? ORDER BY login_time DESC, id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LoginLog{}
	for rows.Next() {
		l, err := scanLoginLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
