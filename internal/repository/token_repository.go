package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists/validates refresh tokens (single 'token_hash' column).
// Each token remembers the login log of the sign-in it descends from so
// refreshed access tokens keep pointing at the same session.
type TokenRepo struct {
	DB  *sql.DB
	Now Clock
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db, Now: SystemClock} }

// RefreshOwner is what a valid refresh token resolves to.  LoginLogID is
// zero for tokens issued without a login session (registration).
type RefreshOwner struct {
	UserID     uint64
	LoginLogID uint64
}

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, owner RefreshOwner, tokenHash string, exp time.Time) error {
	var logID sql.NullInt64
	if owner.LoginLogID != 0 {
		logID = sql.NullInt64{Int64: int64(owner.LoginLogID), Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, login_log_id, token_hash, expires_at, created_at) VALUES (?,?,?,?,?)",
		owner.UserID, logID, tokenHash, exp.UTC(), r.Now())
	return err
}

// ValidateRefresh returns the owner if a non-revoked, non-expired token
// exists.  Any other outcome is reported as ErrNotFound.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (RefreshOwner, error) {
	var (
		owner     RefreshOwner
		logID     sql.NullInt64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, login_log_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&owner.UserID, &logID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RefreshOwner{}, ErrNotFound
	}
	if err != nil {
		return RefreshOwner{}, err
	}
	if revokedAt.Valid || !r.Now().Before(expiresAt) {
		return RefreshOwner{}, ErrNotFound
	}
	if logID.Valid {
		owner.LoginLogID = uint64(logID.Int64)
	}
	return owner, nil
}

// RevokeByHash marks a token as revoked.  It reports ErrNotFound when the
// token was unknown or already revoked, which lets rotation detect reuse.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE token_hash=? AND revoked_at IS NULL",
		r.Now(), tokenHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAllForUser revokes all user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE user_id=? AND revoked_at IS NULL",
		r.Now(), userID)
	return err
}
