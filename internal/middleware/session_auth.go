package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/pulse/backend/pkg/session"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

// RequireAuth rejects requests without a valid session token and puts the
// caller's user id on the request context.
func RequireAuth(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			tokenString, ok := bearer(authHeader)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := mgr.Parse(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			withCaller(c, claims.UserID)
			return next(c)
		}
	}
}

// OptionalAuth resolves the caller when a valid token is present and lets the
// request through anonymously otherwise.
func OptionalAuth(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tokenString, ok := bearer(c.Request().Header.Get("Authorization")); ok {
				if claims, err := mgr.Parse(tokenString); err == nil {
					withCaller(c, claims.UserID)
				}
			}
			return next(c)
		}
	}
}

// Expecting "Bearer <token>"
func bearer(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func withCaller(c echo.Context, userID uint) {
	req := c.Request()
	c.SetRequest(req.WithContext(xcontext.WithUserID(req.Context(), userID)))
	c.Set("userID", userID)
}
