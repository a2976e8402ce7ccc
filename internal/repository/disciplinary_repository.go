package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/workforce-portal/internal/model"
)

// DisciplinaryRepo stores warnings and strikes.
type DisciplinaryRepo struct {
	DB  *sql.DB
	Now Clock
}

func NewDisciplinaryRepo(db *sql.DB) *DisciplinaryRepo {
	return &DisciplinaryRepo{DB: db, Now: SystemClock}
}

// NewDisciplinary is an action issued by AdminID against ModeratorID.
type NewDisciplinary struct {
	ModeratorID uint64
	AdminID     uint64
	Type        string
	Reason      string
	Description string
	Severity    string
	ExpiresAt   *time.Time
}

// DisciplinaryUpdate is a partial edit.  ClearExpiry removes the expiry
// date and takes precedence over ExpiresAt.
type DisciplinaryUpdate struct {
	Type        *string
	Reason      *string
	Description *string
	Severity    *string
	ExpiresAt   *time.Time
	ClearExpiry bool
	IsActive    *bool
}

const disciplinaryColumns = "id,moderator_id,admin_id,type,reason,description,severity,is_active,expires_at,created_at,updated_at"

func scanDisciplinary(s rowScanner) (model.DisciplinaryAction, error) {
	var (
		d       model.DisciplinaryAction
		desc    sql.NullString
		expires sql.NullTime
	)
	err := s.Scan(&d.ID, &d.ModeratorID, &d.AdminID, &d.Type, &d.Reason, &desc, &d.Severity,
		&d.IsActive, &expires, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return d, err
	}
	d.Description = strPtr(desc)
	d.ExpiresAt = timePtr(expires)
	return d, nil
}

// Create stores an active action.  Severity defaults to medium.
func (r *DisciplinaryRepo) Create(ctx context.Context, in NewDisciplinary) (model.DisciplinaryAction, error) {
	severity := in.Severity
	if severity == "" {
		severity = model.SeverityMedium
	}
	now := r.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO disciplinary_actions
		 (moderator_id, admin_id, type, reason, description, severity, is_active, expires_at, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		in.ModeratorID, in.AdminID, in.Type, in.Reason, nullString(in.Description), severity,
		true, nullTime(in.ExpiresAt), now, now)
	if err != nil {
		return model.DisciplinaryAction{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.DisciplinaryAction{}, err
	}
	return r.Get(ctx, uint64(id))
}

// Get fetches one action.
func (r *DisciplinaryRepo) Get(ctx context.Context, id uint64) (model.DisciplinaryAction, error) {
	d, err := scanDisciplinary(r.DB.QueryRowContext(ctx,
		"SELECT "+disciplinaryColumns+" FROM disciplinary_actions WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// ListByModerator returns every action against a moderator, newest first,
// including inactive and expired ones.
func (r *DisciplinaryRepo) ListByModerator(ctx context.Context, moderatorID uint64) ([]model.DisciplinaryAction, error) {
	return r.list(ctx,
		"SELECT "+disciplinaryColumns+" FROM disciplinary_actions WHERE moderator_id=? ORDER BY created_at DESC, id DESC",
		moderatorID)
}

// ListAll returns every action, newest first.
func (r *DisciplinaryRepo) ListAll(ctx context.Context) ([]model.DisciplinaryAction, error) {
	return r.list(ctx, "SELECT "+disciplinaryColumns+" FROM disciplinary_actions ORDER BY created_at DESC, id DESC")
}

// ListActive returns the actions in force against a moderator: flagged
// active and not yet expired at the repository clock's current time.
func (r *DisciplinaryRepo) ListActive(ctx context.Context, moderatorID uint64) ([]model.DisciplinaryAction, error) {
	return r.list(ctx,
		`SELECT `+disciplinaryColumns+` FROM disciplinary_actions
		 WHERE moderator_id=? AND is_active=? AND (expires_at IS NULL OR expires_at > ?)
		 ORDER BY created_at DESC, id DESC`,
		moderatorID, true, r.Now())
}

// Update applies the non-nil fields of u and stamps updated_at.
func (r *DisciplinaryRepo) Update(ctx context.Context, id uint64, u DisciplinaryUpdate) (model.DisciplinaryAction, error) {
	var (
		set  []string
		args []any
	)
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if u.Type != nil {
		add("type", *u.Type)
	}
	if u.Reason != nil {
		add("reason", *u.Reason)
	}
	if u.Description != nil {
		add("description", nullString(*u.Description))
	}
	if u.Severity != nil {
		add("severity", *u.Severity)
	}
	switch {
	case u.ClearExpiry:
		add("expires_at", sql.NullTime{})
	case u.ExpiresAt != nil:
		add("expires_at", nullTime(u.ExpiresAt))
	}
	if u.IsActive != nil {
		add("is_active", *u.IsActive)
	}
	add("updated_at", r.Now())
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE disciplinary_actions SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return model.DisciplinaryAction{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.DisciplinaryAction{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Deactivate clears the active flag.  Deactivating an inactive action is
// a no-op that still succeeds.
func (r *DisciplinaryRepo) Deactivate(ctx context.Context, id uint64) (model.DisciplinaryAction, error) {
	f := false
	return r.Update(ctx, id, DisciplinaryUpdate{IsActive: &f})
}

// ExpireDue clears the active flag on every action whose expiry is at or
// before now and reports how many rows changed.
func (r *DisciplinaryRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE disciplinary_actions SET is_active=?, updated_at=?
		 WHERE is_active=? AND expires_at IS NOT NULL AND expires_at <= ?`,
		false, now, true, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *DisciplinaryRepo) list(ctx context.Context, q string, args ...any) ([]model.DisciplinaryAction, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.DisciplinaryAction{}
	for rows.Next() {
		d, err := scanDisciplinary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
