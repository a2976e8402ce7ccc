package handler // handler defines http handlers

import (
	"context"  // bounded contexts for repository calls
	"errors"   // errors.Is / errors.As against repository sentinels
	"net/http" // status codes
	"strconv"  // path parameter parsing
	"time"     // request timeouts

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workforce-portal/internal/middleware"
	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/schema"
)

// dbTimeout bounds the repository work of one request.
const dbTimeout = 5 * time.Second

var errInvalidBody = errors.New("invalid request body")

// reqCtx derives the repository context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// session returns the caller.  Routes behind JWTAuth always have one.
func session(c echo.Context) (middleware.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return s, echo.ErrUnauthorized
	}
	return s, nil
}

// bindAndValidate decodes the JSON body into in (a pointer) and runs the
// registered validator.  An empty body is allowed; required fields then
// fail validation.
func bindAndValidate(c echo.Context, in any) error {
	if err := c.Bind(in); err != nil {
		return errInvalidBody
	}
	return c.Validate(in)
}

// paramID parses a positive integer path parameter no larger than the
// store's signed 64-bit keys.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 63)
	return id, err == nil && id > 0
}

// items wraps a list the way every list endpoint returns it.
func items[T any](list []T) echo.Map {
	if list == nil {
		list = []T{}
	}
	return echo.Map{"items": list}
}

// fail maps an error to its HTTP response.  Unknown errors are logged and
// reported as 500 with msg.
func fail(c echo.Context, err error, msg string) error {
	if ve, ok := schema.AsValidationError(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": ve.Fields})
	}
	var he *echo.HTTPError
	switch {
	case errors.Is(err, errInvalidBody):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errInvalidBody.Error()})
	case errors.As(err, &he):
		return c.JSON(he.Code, echo.Map{"error": http.StatusText(he.Code)})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrAlreadyMarked),
		errors.Is(err, repository.ErrAlreadyReviewed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	c.Logger().Errorf("%s: %v", msg, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

// userAgent returns the request's User-Agent header.
func userAgent(c echo.Context) string { return c.Request().UserAgent() }
