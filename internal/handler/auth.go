package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workforce-portal/internal/config"
	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/schema"
	"github.com/iliyamo/workforce-portal/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Logins *repository.LoginLogRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, l *repository.LoginLogRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Logins: l}
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User     model.User      `json:"user"`
	Access   tokenPart       `json:"access"`
	Refresh  tokenPart       `json:"refresh"`
	LoginLog *model.LoginLog `json:"loginLog,omitempty"`
}

// issue mints an access/refresh pair bound to the given login log.
func (h *AuthHandler) issue(c echo.Context, u model.User, loginLogID uint64) (tokenPart, tokenPart, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, loginLogID, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	owner := repository.RefreshOwner{UserID: u.ID, LoginLogID: loginLogID}
	if err := h.Tokens.StoreRefresh(ctx, owner, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	return tokenPart{Token: access.Token, Expires: access.Exp}, tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, nil
}

// Register creates a moderator account and returns tokens immediately.
// No login log is opened; the client signs in to start a session.
func (h *AuthHandler) Register(c echo.Context) error {
	var in schema.RegisterInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, repository.NewUser{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      model.RoleModerator,
	}, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, err, "create user failed")
	}

	access, refresh, err := h.issue(c, u, 0)
	if err != nil {
		return fail(c, err, "issue tokens failed")
	}
	return c.JSON(http.StatusCreated, authResp{User: u, Access: access, Refresh: refresh})
}

// Login verifies credentials, opens a login log for the session and
// returns a token pair carrying its id.
func (h *AuthHandler) Login(c echo.Context) error {
	var in schema.LoginInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return fail(c, err, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, in.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	}

	var cc schema.ClientContextInput
	if loc := c.Request().Header.Get("X-Client-Location"); loc != "" {
		cc.Location = loc
		cc.Normalize()
	}
	ll, err := h.Logins.Create(ctx, repository.NewLoginLog{
		UserID:    u.ID,
		IPAddress: c.RealIP(),
		Location:  truncate(cc.Location, 255),
		UserAgent: userAgent(c),
	})
	if err != nil {
		return fail(c, err, "open session failed")
	}

	access, refresh, err := h.issue(c, u, ll.ID)
	if err != nil {
		return fail(c, err, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, authResp{User: u, Access: access, Refresh: refresh, LoginLog: &ll})
}

// Refresh rotates a refresh token.  The new pair stays bound to the
// original login log.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var in schema.RefreshInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}
	hash := utils.HashRefreshRaw(in.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	owner, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return fail(c, err, "validate refresh failed")
	}
	// Losing the revoke race means another request already rotated it.
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return fail(c, err, "revoke refresh failed")
	}

	u, err := h.Users.GetByID(ctx, owner.UserID)
	if err != nil {
		return fail(c, err, "load user failed")
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	}

	access, refresh, err := h.issue(c, u, owner.LoginLogID)
	if err != nil {
		return fail(c, err, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, authResp{User: u, Access: access, Refresh: refresh})
}

// Logout closes the caller's login session and revokes every refresh
// token of the user.  The session's own log is closed when the token
// names one that is still open; otherwise the newest open log is, which
// covers a log reopened by TrackLogin.  Having nothing open to close is
// not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := h.Logins.Now()
	err = repository.ErrNotFound
	if s.LoginLogID != 0 {
		err = h.Logins.CloseSession(ctx, s.UserID, s.LoginLogID, now)
	}
	if errors.Is(err, repository.ErrNotFound) {
		err = h.Logins.CloseLatestOpen(ctx, s.UserID, now)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fail(c, err, "close session failed")
	}
	if err := h.Tokens.RevokeAllForUser(ctx, s.UserID); err != nil {
		return fail(c, err, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// User returns the authenticated account.
func (h *AuthHandler) User(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, s.UserID)
	if err != nil {
		return fail(c, err, "load user failed")
	}
	return c.JSON(http.StatusOK, u)
}

// TrackLogin records the client's location on the session's login log.
// When the session already has an open log it is returned unchanged;
// otherwise a new log is opened.
func (h *AuthHandler) TrackLogin(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	var in schema.ClientContextInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if s.LoginLogID != 0 {
		ll, err := h.Logins.Get(ctx, s.LoginLogID)
		if err == nil && ll.UserID == s.UserID && ll.Open() {
			return c.JSON(http.StatusOK, ll)
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fail(c, err, "load session failed")
		}
	}
	ll, err := h.Logins.Create(ctx, repository.NewLoginLog{
		UserID:    s.UserID,
		IPAddress: c.RealIP(),
		Location:  in.Location,
		UserAgent: userAgent(c),
	})
	if err != nil {
		return fail(c, err, "track login failed")
	}
	return c.JSON(http.StatusCreated, ll)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
