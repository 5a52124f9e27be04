package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/errorx"
)

// ViewVersionHeader carries the version of the view a read was served from.
const ViewVersionHeader = "X-View-Version"

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// respondResult reports idempotent mutations. No-ops are still 200.
func respondResult(c echo.Context, res models.Result) error {
	return c.JSON(http.StatusOK, echo.Map{"success": res.Success, "message": res.Message})
}

func respondMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": message})
}

// httpError turns a service error into an echo HTTP error.
func httpError(err error) error {
	var xe *errorx.Error
	if !errors.As(err, &xe) {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	switch xe.Code {
	case errorx.Unauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, xe.Message)
	case errorx.Forbidden:
		return echo.NewHTTPError(http.StatusForbidden, xe.Message)
	case errorx.NotFound:
		return echo.NewHTTPError(http.StatusNotFound, xe.Message)
	case errorx.Validation:
		return echo.NewHTTPError(http.StatusBadRequest, xe.Message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, xe.Message)
	}
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string) int {
	v, _ := strconv.Atoi(c.QueryParam(name))
	return v
}

// setViewVersion is best-effort; a read never fails because the signal is down.
func setViewVersion(c echo.Context, inv views.Invalidator, key string) {
	if v, err := inv.Version(c.Request().Context(), key); err == nil {
		c.Response().Header().Set(ViewVersionHeader, strconv.FormatInt(v, 10))
	}
}
