package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anonto42/pulse/backend/internal/handlers"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/services"
	"github.com/anonto42/pulse/backend/internal/testutil"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/firebase"
	"github.com/anonto42/pulse/backend/pkg/session"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type stubVerifier map[string]*firebase.Identity

func (s stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*firebase.Identity, error) {
	if id, ok := s[idToken]; ok {
		return id, nil
	}
	return nil, errors.New("token rejected")
}

type server struct {
	e        *echo.Echo
	sessions *session.Manager
}

func newServer(t *testing.T, verifier handlers.IdentityVerifier) (*server, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	rec := views.NewRecorder()
	mgr := session.NewManager("router-test", time.Hour)

	e := echo.New()
	SetupMiddleware(e, 0)
	require.NoError(t, SetupRoutes(e, Deps{
		DB:       db,
		Services: services.New(repositories.NewStore(db), rec, services.Options{}),
		Views:    rec,
		Sessions: mgr,
		Verifier: verifier,
	}))
	return &server{e: e, sessions: mgr}, db
}

func (s *server) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, _, err := s.sessions.Issue(u.ID, u.FirebaseUID)
	require.NoError(t, err)
	return tok
}

func (s *server) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t, nil)
	rec, _ := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestPostLikeNotificationFlow(t *testing.T) {
	s, db := newServer(t, nil)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	aliceTok, bobTok := s.token(t, alice), s.token(t, bob)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/posts", `{"content":"hi"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/posts", `{"content":"hello world"}`, aliceTok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post models.PostSummary
	require.NoError(t, json.Unmarshal(env.Data, &post))
	require.Equal(t, "alice", post.Author.Username)
	postPath := fmt.Sprintf("/api/v1/posts/%d", post.ID)

	rec, env = s.do(t, http.MethodPost, postPath+"/likes", "", bobTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = s.do(t, http.MethodPost, postPath+"/likes", "", bobTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "You have already liked this post", env.Message)

	rec, env = s.do(t, http.MethodGet, postPath+"/likes/status", "", bobTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"liked":true}`, string(env.Data))

	rec, env = s.do(t, http.MethodGet, "/api/v1/posts", "", bobTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(handlers.ViewVersionHeader))
	var page models.Page[models.PostSummary]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 1, page.Items[0].LikesCount)
	assert.True(t, page.Items[0].LikedByMe)

	rec, env = s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", "", aliceTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, string(env.Data))

	rec, env = s.do(t, http.MethodGet, "/api/v1/notifications?unread=true", "", aliceTok)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.NotificationView
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationLike, list[0].Type)

	rec, env = s.do(t, http.MethodPut, "/api/v1/notifications/read-all", "", aliceTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":1}`, string(env.Data))

	rec, _ = s.do(t, http.MethodDelete, postPath, "", bobTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = s.do(t, http.MethodDelete, postPath, "", aliceTok)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodGet, postPath, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowAndProfileRoutes(t *testing.T) {
	s, db := newServer(t, nil)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	bobTok := s.token(t, bob)

	rec, _ := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", bob.ID), "", bobTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", alice.ID), "", bobTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = s.do(t, http.MethodGet, "/api/v1/users/alice", "", bobTok)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile models.Profile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.True(t, profile.FollowedByMe)
	assert.EqualValues(t, 1, profile.FollowersCount)

	rec, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/followers", alice.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var followers []models.UserCompact
	require.NoError(t, json.Unmarshal(env.Data, &followers))
	require.Len(t, followers, 1)
	assert.Equal(t, bob.ID, followers[0].ID)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/api/v1/users/abc/posts", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/api/v1/users/999/followers", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFirebaseLogin(t *testing.T) {
	verifier := stubVerifier{"good": {UID: "fb-1", Email: "carol@example.com", Name: "Carol"}}
	s, _ := newServer(t, verifier)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"bad"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"good"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var login struct {
		Token string             `json:"token"`
		User  models.UserCompact `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "carol", login.User.Username)

	rec, env = s.do(t, http.MethodGet, "/api/v1/users/me", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.Profile
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, login.User.ID, me.ID)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"good"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFirebaseLoginDisabled(t *testing.T) {
	s, _ := newServer(t, nil)
	rec, _ := s.do(t, http.MethodPost, "/api/v1/auth/firebase-login", `{"idToken":"x"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
