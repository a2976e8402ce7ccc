package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/schema"
)

// AdminHandler serves the admin oversight endpoints.
type AdminHandler struct {
	Users      *repository.UserRepo
	Attendance *repository.AttendanceRepo
	Logins     *repository.LoginLogRepo
	Stats      *repository.StatsRepo
	Audit      *repository.AdminActionRepo
}

func NewAdminHandler(u *repository.UserRepo, a *repository.AttendanceRepo, l *repository.LoginLogRepo, s *repository.StatsRepo, audit *repository.AdminActionRepo) *AdminHandler {
	return &AdminHandler{Users: u, Attendance: a, Logins: l, Stats: s, Audit: audit}
}

// Moderators lists every moderator account.
func (h *AdminHandler) Moderators(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Users.ListModerators(ctx)
	if err != nil {
		return fail(c, err, "list moderators failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// SetUserStatus enables or disables an account.  Admins cannot disable
// themselves.
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var in schema.UserStatusInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}
	if id == s.UserID && !*in.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot deactivate your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateStatus(ctx, id, *in.IsActive); err != nil {
		return fail(c, err, "update user status failed")
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "load user failed")
	}
	audit(c, h.Audit, ActionUserStatus, id, fmt.Sprintf("isActive=%t", u.IsActive))
	return c.JSON(http.StatusOK, u)
}

// DashboardStats returns the admin dashboard counters.  Always computed fresh.
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	mods, err := h.Stats.ModeratorStats(ctx)
	if err != nil {
		return fail(c, err, "load stats failed")
	}
	att, err := h.Stats.AttendanceStats(ctx)
	if err != nil {
		return fail(c, err, "load stats failed")
	}
	logins, err := h.Stats.LoginStats(ctx)
	if err != nil {
		return fail(c, err, "load stats failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"moderators": mods,
		"attendance": att,
		"logins":     logins,
	})
}

// UserAttendance returns one user's attendance history; ?limit defaults
// to 30.
func (h *AdminHandler) UserAttendance(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Attendance.History(ctx, id, limit)
	if err != nil {
		return fail(c, err, "load attendance failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// UserLogins returns one user's login history; ?limit defaults to 50.
func (h *AdminHandler) UserLogins(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Logins.History(ctx, id, limit)
	if err != nil {
		return fail(c, err, "load login history failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// Actions returns the audit trail, newest first.  ?target narrows it to
// actions about one user.
func (h *AdminHandler) Actions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		list []model.AdminAction
		err  error
	)
	if t := c.QueryParam("target"); t != "" {
		target, perr := strconv.ParseUint(t, 10, 63)
		if perr != nil || target == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid target"})
		}
		list, err = h.Audit.ListByTarget(ctx, target, limit)
	} else {
		list, err = h.Audit.List(ctx, limit)
	}
	if err != nil {
		return fail(c, err, "list admin actions failed")
	}
	return c.JSON(http.StatusOK, items(list))
}
