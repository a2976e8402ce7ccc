package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/workforce-portal/internal/handler"
	"github.com/iliyamo/workforce-portal/internal/middleware"
)

// RegisterRoutes registers the unauthenticated operational endpoints:
// a health check for load balancers and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo, db *sql.DB, rdb *redis.Client) {
	e.GET("/healthz", handler.Health(db, rdb))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the authentication routes under /api/auth.
// register, login and refresh are public and share the auth rate limit;
// the rest need a valid access token, and all but logout an active account.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, users middleware.ActiveChecker, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limit)
	g.POST("/login", a.Login, limit)
	g.POST("/refresh", a.Refresh, limit)

	// Logout needs the session to know which login log to close.
	authed := middleware.JWTAuth(jwtSecret)
	g.POST("/logout", a.Logout, authed)
	active := middleware.RequireActive(users)
	g.GET("/user", a.User, authed, active)
	g.POST("/track-login", a.TrackLogin, authed, active)
}
