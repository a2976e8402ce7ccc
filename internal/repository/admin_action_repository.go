package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/workforce-portal/internal/model"
)

const (
	DefaultActionLimit = 100
	MaxActionLimit     = 1000
)

// AdminActionRepo is the append-only audit trail of admin mutations.
type AdminActionRepo struct {
	DB  *sql.DB
	Now Clock
}

func NewAdminActionRepo(db *sql.DB) *AdminActionRepo {
	return &AdminActionRepo{DB: db, Now: SystemClock}
}

// NewAdminAction is one audit entry.  An empty IPAddress is stored as
// "unknown".
type NewAdminAction struct {
	AdminID      uint64
	Action       string
	TargetUserID *uint64
	Details      string
	IPAddress    string
}

const adminActionColumns = "id,admin_id,action,target_user_id,details,ip_address,created_at"

func scanAdminAction(s rowScanner) (model.AdminAction, error) {
	var (
		a       model.AdminAction
		target  sql.NullInt64
		details sql.NullString
	)
	if err := s.Scan(&a.ID, &a.AdminID, &a.Action, &target, &details, &a.IPAddress, &a.CreatedAt); err != nil {
		return a, err
	}
	a.TargetUserID = idPtr(target)
	a.Details = strPtr(details)
	return a, nil
}

// Log appends an entry and returns its id.
func (r *AdminActionRepo) Log(ctx context.Context, in NewAdminAction) (uint64, error) {
	ip := in.IPAddress
	if ip == "" {
		ip = "unknown"
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admin_actions (admin_id, action, target_user_id, details, ip_address, created_at) VALUES (?,?,?,?,?,?)",
		in.AdminID, in.Action, nullID(in.TargetUserID), nullString(in.Details), ip, r.Now())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// List returns the newest entries first.
func (r *AdminActionRepo) List(ctx context.Context, limit int) ([]model.AdminAction, error) {
	limit = limitOr(limit, DefaultActionLimit, MaxActionLimit)
	return r.list(ctx,
		"SELECT "+adminActionColumns+" FROM admin_actions ORDER BY created_at DESC, id DESC LIMIT ?", limit)
}

// ListByTarget returns entries about one user, newest first.
func (r *AdminActionRepo) ListByTarget(ctx context.Context, userID uint64, limit int) ([]model.AdminAction, error) {
	limit = limitOr(limit, DefaultActionLimit, MaxActionLimit)
	return r.list(ctx,
		"SELECT "+adminActionColumns+" FROM admin_actions WHERE target_user_id=? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit)
}

func (r *AdminActionRepo) list(ctx context.Context, q string, args ...any) ([]model.AdminAction, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AdminAction{}
	for rows.Next() {
		a, err := scanAdminAction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
