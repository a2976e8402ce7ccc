package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/schema"
	"github.com/iliyamo/workforce-portal/internal/service"
)

// AttendanceHandler serves the moderator self-service endpoints:
// attendance, personal stats, login history and the dashboard.
type AttendanceHandler struct {
	Attendance   *repository.AttendanceRepo
	Logins       *repository.LoginLogRepo
	Disciplinary *repository.DisciplinaryRepo
	Stats        *service.Stats
	Loc          *time.Location
}

func NewAttendanceHandler(a *repository.AttendanceRepo, l *repository.LoginLogRepo, d *repository.DisciplinaryRepo, s *service.Stats, loc *time.Location) *AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceHandler{Attendance: a, Logins: l, Disciplinary: d, Stats: s, Loc: loc}
}

// Mark records today's attendance.  A second mark on the same business
// day is rejected with 409.
func (h *AttendanceHandler) Mark(c echo.Context) error {
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

	rec, err := h.Attendance.Mark(ctx, repository.MarkInput{
		UserID:    s.UserID,
		IPAddress: c.RealIP(),
		Location:  in.Location,
		UserAgent: userAgent(c),
	})
	if err != nil {
		return fail(c, err, "mark attendance failed")
	}
	return c.JSON(http.StatusCreated, rec)
}

// Today returns today's record or null.
func (h *AttendanceHandler) Today(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rec, err := h.Attendance.GetToday(ctx, s.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusOK, nil)
	}
	if err != nil {
		return fail(c, err, "load attendance failed")
	}
	return c.JSON(http.StatusOK, rec)
}

// History returns the caller's last :n records.
func (h *AttendanceHandler) History(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "n must be a positive integer"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Attendance.History(ctx, s.UserID, n)
	if err != nil {
		return fail(c, err, "load attendance failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// Range returns the caller's records between ?start and ?end
// (YYYY-MM-DD, business timezone), both days included.
func (h *AttendanceHandler) Range(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	from, to, ok := h.parseRange(c.QueryParam("start"), c.QueryParam("end"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start and end must be YYYY-MM-DD with start <= end"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Attendance.ByDateRange(ctx, s.UserID, from, to)
	if err != nil {
		return fail(c, err, "load attendance failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// parseRange turns two calendar days into the first and last instants
// they cover.
func (h *AttendanceHandler) parseRange(start, end string) (time.Time, time.Time, bool) {
	sd, err1 := time.ParseInLocation("2006-01-02", start, h.Loc)
	ed, err2 := time.ParseInLocation("2006-01-02", end, h.Loc)
	if err1 != nil || err2 != nil || ed.Before(sd) {
		return time.Time{}, time.Time{}, false
	}
	from, _ := repository.DayBounds(sd, h.Loc)
	_, next := repository.DayBounds(ed, h.Loc)
	return from, next.Add(-time.Microsecond), true
}

// UserStats returns the caller's monthly summary.
func (h *AttendanceHandler) UserStats(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Stats.UserStats(ctx, s.UserID)
	if err != nil {
		return fail(c, err, "load stats failed")
	}
	return c.JSON(http.StatusOK, st)
}

// LoginHistory returns the caller's sessions; ?limit defaults to 50.
func (h *AttendanceHandler) LoginHistory(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Logins.History(ctx, s.UserID, limit)
	if err != nil {
		return fail(c, err, "load login history failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// Dashboard assembles everything the moderator landing page shows.
func (h *AttendanceHandler) Dashboard(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	today, err := h.Attendance.GetToday(ctx, s.UserID)
	var todayOut any
	switch {
	case err == nil:
		todayOut = today
	case !errors.Is(err, repository.ErrNotFound):
		return fail(c, err, "load attendance failed")
	}

	stats, err := h.Stats.UserStats(ctx, s.UserID)
	if err != nil {
		return fail(c, err, "load stats failed")
	}
	history, err := h.Attendance.History(ctx, s.UserID, service.DashboardHistoryLimit)
	if err != nil {
		return fail(c, err, "load attendance failed")
	}
	week, err := h.Stats.Week(ctx, s.UserID)
	if err != nil {
		return fail(c, err, "load week failed")
	}
	actions, err := h.Disciplinary.ListActive(ctx, s.UserID)
	if err != nil {
		return fail(c, err, "load disciplinary actions failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"todayAttendance":     todayOut,
		"stats":               stats,
		"attendanceHistory":   history,
		"week":                week,
		"disciplinaryActions": actions,
	})
}
