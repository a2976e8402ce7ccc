package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health reports liveness for load balancers.  The database must answer
// a ping; Redis is optional and only reported.
func Health(db *sql.DB, rdb *redis.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		out := echo.Map{"status": "ok", "db": "ok", "redis": "disabled"}
		status := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			out["status"], out["db"] = "degraded", "down"
			status = http.StatusServiceUnavailable
		}
		if rdb != nil {
			out["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				out["redis"] = "down"
			}
		}
		return c.JSON(status, out)
	}
}
