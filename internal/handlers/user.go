package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/pulse/backend/internal/services"
	"github.com/anonto42/pulse/backend/internal/views"
)

// UserHandler handles user profile related requests
type UserHandler struct {
	users *services.UserService
	posts *services.PostService
	views views.Invalidator
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, posts *services.PostService, inv views.Invalidator) *UserHandler {
	return &UserHandler{users: users, posts: posts, views: inv}
}

// RegisterProfileRoutes registers user profile routes
func (h *UserHandler) RegisterProfileRoutes(public, protected *echo.Group) {
	public.GET("/users/suggested", h.GetSuggestedUsers)
	public.GET("/users/search", h.SearchUsers)
	public.GET("/users/:id", h.GetProfile)
	public.GET("/users/:id/posts", h.GetUserPosts)
	protected.GET("/users/me", h.GetMe)
}

// GetProfile accepts either a numeric id or a username
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.users.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	setViewVersion(c, h.views, views.Profile(profile.ID))
	return respond(c, http.StatusOK, profile)
}

// GetMe returns the caller's own profile
func (h *UserHandler) GetMe(c echo.Context) error {
	profile, err := h.users.GetMe(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, profile)
}

func (h *UserHandler) GetUserPosts(c echo.Context) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	setViewVersion(c, h.views, views.Profile(userID))

	posts, err := h.posts.GetUserPosts(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, posts)
}

// GetSuggestedUsers suggests accounts to follow. Anonymous callers get the
// most followed accounts.
func (h *UserHandler) GetSuggestedUsers(c echo.Context) error {
	setViewVersion(c, h.views, views.Explore)

	users, err := h.users.GetSuggestedUsers(c.Request().Context(), queryInt(c, "limit"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, users)
}

// SearchUsers searches users by username or display name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.users.SearchUsers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, users)
}
