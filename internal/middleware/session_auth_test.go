package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/pulse/backend/pkg/session"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

func callerEcho(mw echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": xcontext.UserID(c.Request().Context())})
	}, mw)
	return e
}

func serve(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	mgr := session.NewManager("secret", time.Hour)
	token, _, err := mgr.Issue(42, "uid-42")
	require.NoError(t, err)
	e := callerEcho(RequireAuth(mgr))

	rec := serve(e, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":42}`, rec.Body.String())

	for _, header := range []string{"", "Token " + token, "Bearer", "Bearer not-a-jwt"} {
		assert.Equal(t, http.StatusUnauthorized, serve(e, header).Code, header)
	}

	other := session.NewManager("other", time.Hour)
	foreign, _, err := other.Issue(42, "uid-42")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Bearer "+foreign).Code)
}

func TestOptionalAuth(t *testing.T) {
	mgr := session.NewManager("secret", time.Hour)
	token, _, err := mgr.Issue(7, "uid-7")
	require.NoError(t, err)
	e := callerEcho(OptionalAuth(mgr))

	rec := serve(e, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())

	rec = serve(e, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":0}`, rec.Body.String())

	rec = serve(e, "Bearer garbage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":0}`, rec.Body.String())
}
