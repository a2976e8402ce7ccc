package middleware

// identity.go carries the per-request session.  JWTAuth builds it from the
// access token; handlers read it with SessionFrom.  Nothing about the
// caller is kept outside the request.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const sessionKey = "session"

// Session is the authenticated caller of a request.  LoginLogID is the
// login log opened by the sign-in that issued the token, or zero.
type Session struct {
	UserID     uint64
	Role       string
	LoginLogID uint64
}

// SetSession stores s on the context together with the legacy "user_id"
// and "role" keys read by the rate limiter and role check.
func SetSession(c echo.Context, s Session) {
	c.Set(sessionKey, s)
	c.Set("user_id", strconv.FormatUint(s.UserID, 10))
	c.Set("role", s.Role)
}

// SessionFrom returns the session set by JWTAuth.  ok is false on routes
// that are not behind JWTAuth.
func SessionFrom(c echo.Context) (Session, bool) {
	s, ok := c.Get(sessionKey).(Session)
	return s, ok && s.UserID != 0
}

// userID returns the caller id as a string, or "anon".
func userID(c echo.Context) string {
	if s, ok := SessionFrom(c); ok {
		return strconv.FormatUint(s.UserID, 10)
	}
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "anon"
}
