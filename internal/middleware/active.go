package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ActiveChecker looks up whether an account is enabled.
type ActiveChecker interface {
	IsActive(ctx context.Context, userID uint64) (bool, error)
}

// RequireActive refuses callers whose account was disabled or deleted after
// their access token was issued.  It must run after JWTAuth.
func RequireActive(users ActiveChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := SessionFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			active, err := users.IsActive(c.Request().Context(), s.UserID)
			if err != nil {
				c.Logger().Errorf("active check for user %d: %v", s.UserID, err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}
			if !active {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
			}
			return next(c)
		}
	}
}
