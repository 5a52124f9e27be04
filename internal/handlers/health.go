package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck reports whether the process can reach its database.
func HealthCheck(db Pinger) echo.HandlerFunc {
	return func(e echo.Context) error {
		if err := db.PingContext(e.Request().Context()); err != nil {
			return e.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"service": "pulse-api",
			})
		}
		return e.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "pulse-api",
		})
	}
}
