package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/workforce-portal/internal/model"
)

// ScheduleRepo reads and writes weekly shift schedules.
type ScheduleRepo struct {
	DB  *sql.DB
	Now Clock
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{DB: db, Now: SystemClock} }

// ScheduleUpdate is a partial edit; nil fields keep their stored value.
type ScheduleUpdate struct {
	UserID    *uint64
	AgentName *string
	Team      *string
	Monday    *string
	Tuesday   *string
	Wednesday *string
	Thursday  *string
	Friday    *string
	Saturday  *string
	Sunday    *string
	Timezone  *string
	IsActive  *bool
}

const scheduleColumns = `id,user_id,agent_name,team,monday,tuesday,wednesday,thursday,friday,saturday,sunday,
	timezone,is_active,created_at,updated_at`

func scanSchedule(s rowScanner) (model.ShiftSchedule, error) {
	var sc model.ShiftSchedule
	err := s.Scan(&sc.ID, &sc.UserID, &sc.AgentName, &sc.Team,
		&sc.Monday, &sc.Tuesday, &sc.Wednesday, &sc.Thursday, &sc.Friday, &sc.Saturday, &sc.Sunday,
		&sc.Timezone, &sc.IsActive, &sc.CreatedAt, &sc.UpdatedAt)
	return sc, err
}

func orOff(slot string) string {
	if strings.TrimSpace(slot) == "" {
		return model.DayOff
	}
	return slot
}

// Create stores a schedule.  Empty slots are stored as "Off" and an
// empty timezone as "GMT"; IsActive on the input is ignored.
func (r *ScheduleRepo) Create(ctx context.Context, s model.ShiftSchedule) (model.ShiftSchedule, error) {
	tz := s.Timezone
	if tz == "" {
		tz = model.DefaultTimezone
	}
	now := r.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO shift_schedules
		 (user_id, agent_name, team, monday, tuesday, wednesday, thursday, friday, saturday, sunday,
		  timezone, is_active, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.UserID, s.AgentName, s.Team,
		orOff(s.Monday), orOff(s.Tuesday), orOff(s.Wednesday), orOff(s.Thursday),
		orOff(s.Friday), orOff(s.Saturday), orOff(s.Sunday),
		tz, true, now, now)
	if err != nil {
		return model.ShiftSchedule{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ShiftSchedule{}, err
	}
	return r.Get(ctx, uint64(id))
}

// Get fetches a schedule by id.
func (r *ScheduleRepo) Get(ctx context.Context, id uint64) (model.ShiftSchedule, error) {
	sc, err := scanSchedule(r.DB.QueryRowContext(ctx,
		"SELECT "+scheduleColumns+" FROM shift_schedules WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return sc, ErrNotFound
	}
	return sc, err
}

// ListAll returns every schedule ordered by agent name.
func (r *ScheduleRepo) ListAll(ctx context.Context) ([]model.ShiftSchedule, error) {
	return r.list(ctx, "SELECT "+scheduleColumns+" FROM shift_schedules ORDER BY agent_name, id")
}

// ListByTeam returns the schedules of one team ordered by agent name.
func (r *ScheduleRepo) ListByTeam(ctx context.Context, team string) ([]model.ShiftSchedule, error) {
	return r.list(ctx,
		"SELECT "+scheduleColumns+" FROM shift_schedules WHERE team=? ORDER BY agent_name, id", team)
}

// GetForUser returns the user's most recently created schedule.
func (r *ScheduleRepo) GetForUser(ctx context.Context, userID uint64) (model.ShiftSchedule, error) {
	sc, err := scanSchedule(r.DB.QueryRowContext(ctx,
		"SELECT "+scheduleColumns+" FROM shift_schedules WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT 1",
		userID))
	if errors.Is(err, sql.ErrNoRows) {
		return sc, ErrNotFound
	}
	return sc, err
}

// Update applies the non-nil fields of u and stamps updated_at.
func (r *ScheduleRepo) Update(ctx context.Context, id uint64, u ScheduleUpdate) (model.ShiftSchedule, error) {
	var (
		set  []string
		args []any
	)
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if u.UserID != nil {
		add("user_id", *u.UserID)
	}
	if u.AgentName != nil {
		add("agent_name", *u.AgentName)
	}
	if u.Team != nil {
		add("team", *u.Team)
	}
	slots := []struct {
		col string
		v   *string
	}{
		{"monday", u.Monday}, {"tuesday", u.Tuesday}, {"wednesday", u.Wednesday}, {"thursday", u.Thursday},
		{"friday", u.Friday}, {"saturday", u.Saturday}, {"sunday", u.Sunday},
	}
	for _, s := range slots {
		if s.v != nil {
			add(s.col, orOff(*s.v))
		}
	}
	if u.Timezone != nil {
		add("timezone", *u.Timezone)
	}
	if u.IsActive != nil {
		add("is_active", *u.IsActive)
	}
	add("updated_at", r.Now())
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE shift_schedules SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return model.ShiftSchedule{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ShiftSchedule{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *ScheduleRepo) list(ctx context.Context, q string, args ...any) ([]model.ShiftSchedule, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ShiftSchedule{}
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
