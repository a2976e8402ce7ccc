package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/utils"
)

// UserRepo reads and writes the 'users' table.
type UserRepo struct {
	DB  *sql.DB
	Now Clock
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db, Now: SystemClock} }

// NewUser carries the fields accepted by Create.  Password is the plain
// text; only its bcrypt hash is stored.
type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

const userColumns = "id,email,password_hash,first_name,last_name,role,is_active,created_at,updated_at"

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts an active user and returns the stored row.  Role defaults
// to moderator.
func (r *UserRepo) Create(ctx context.Context, in NewUser, cost int) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role != model.RoleAdmin {
		role = model.RoleModerator
	}
	hash, err := utils.HashPassword(in.Password, cost)
	if err != nil {
		return model.User{}, err
	}
	now := r.Now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, role, is_active, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?)",
		email, hash, in.FirstName, in.LastName, role, true, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// ListModerators returns every moderator account, active or not, ordered
// by name.
func (r *UserRepo) ListModerators(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role=? ORDER BY first_name, last_name, id",
		model.RoleModerator)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateStatus enables or disables an account.  Returns ErrNotFound when
// no user has the id.
func (r *UserRepo) UpdateStatus(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=?, updated_at=? WHERE id=?", active, r.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsActive reports whether the account may use the API.  A missing user
// is not active.
func (r *UserRepo) IsActive(ctx context.Context, id uint64) (bool, error) {
	var active bool
	err := r.DB.QueryRowContext(ctx, "SELECT is_active FROM users WHERE id=?", id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return active, err
}
