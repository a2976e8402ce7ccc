package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workforce-portal/internal/handler"
	"github.com/iliyamo/workforce-portal/internal/middleware"
	"github.com/iliyamo/workforce-portal/internal/model"
)

// API bundles the handlers behind /api.
type API struct {
	Attendance   *handler.AttendanceHandler
	Reviews      *handler.ReviewHandler
	Schedules    *handler.ScheduleHandler
	Disciplinary *handler.DisciplinaryHandler
	Admin        *handler.AdminHandler

	// Users gates every route on the caller's account still being active.
	Users middleware.ActiveChecker
}

// RegisterAPI registers the endpoints for signed-in users.  Both roles
// reach the /api group; review submission is moderator-only.  The
// schedule list goes through the response cache.
func RegisterAPI(e *echo.Echo, h API, jwtSecret string, limit, scheduleCache echo.MiddlewareFunc) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireActive(h.Users),
		middleware.RequireRole(model.RoleModerator, model.RoleAdmin),
		limit,
	)

	// ---- Attendance & self-service ----
	g.POST("/attendance/mark", h.Attendance.Mark)
	g.GET("/attendance/today", h.Attendance.Today)
	g.GET("/attendance/history/:n", h.Attendance.History)
	g.GET("/attendance/range", h.Attendance.Range)
	g.GET("/user/stats", h.Attendance.UserStats)
	g.GET("/user/login-history", h.Attendance.LoginHistory)
	g.GET("/dashboard", h.Attendance.Dashboard)

	// ---- Reviews ----
	g.GET("/trustpilot/reviews", h.Reviews.List)
	g.POST("/trustpilot/reviews", h.Reviews.Submit, middleware.RequireRole(model.RoleModerator))

	// ---- Schedules ----
	g.GET("/schedules", h.Schedules.List, scheduleCache)
	g.GET("/schedules/my-schedule", h.Schedules.Mine)

	// ---- Disciplinary ----
	g.GET("/disciplinary/mine", h.Disciplinary.Mine)

	registerAdmin(e, h, jwtSecret, limit)
}

// registerAdmin registers the ADMIN-scoped endpoints under /api/admin.
func registerAdmin(e *echo.Echo, h API, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/api/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireActive(h.Users),
		middleware.RequireRole(model.RoleAdmin),
		limit,
	)

	// ---- Users & oversight ----
	g.GET("/moderators", h.Admin.Moderators)
	g.PATCH("/users/:id/status", h.Admin.SetUserStatus)
	g.GET("/stats", h.Admin.DashboardStats)
	g.GET("/users/:id/attendance", h.Admin.UserAttendance)
	g.GET("/users/:id/logins", h.Admin.UserLogins)
	g.GET("/actions", h.Admin.Actions)

	// ---- Reviews ----
	g.PATCH("/trustpilot/reviews/:id", h.Reviews.Decide)

	// ---- Schedules ----
	g.POST("/schedules", h.Schedules.Create)
	g.PATCH("/schedules/:id", h.Schedules.Update)

	// ---- Disciplinary ----
	g.POST("/disciplinary", h.Disciplinary.Create)
	g.GET("/disciplinary", h.Disciplinary.List)
	g.GET("/disciplinary/moderator/:id", h.Disciplinary.ListForModerator)
	g.PATCH("/disciplinary/:id", h.Disciplinary.Update)
	g.POST("/disciplinary/:id/deactivate", h.Disciplinary.Deactivate)
}
