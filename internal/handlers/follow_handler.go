package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/pulse/backend/internal/services"
)

// FollowHandler handles HTTP requests related to following users
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(public, protected *echo.Group) {
	public.GET("/users/:id/followers", h.GetFollowers)
	public.GET("/users/:id/following", h.GetFollowing)
	protected.POST("/users/:id/follow", h.FollowUser)
	protected.DELETE("/users/:id/follow", h.UnfollowUser)
	protected.GET("/users/:id/follow/status", h.GetFollowStatus)
}

// FollowUser handles following a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.follows.FollowUser(c.Request().Context(), targetID)
	if err != nil {
		return httpError(err)
	}
	return respondResult(c, res)
}

// UnfollowUser handles unfollowing a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.follows.UnfollowUser(c.Request().Context(), targetID)
	if err != nil {
		return httpError(err)
	}
	return respondResult(c, res)
}

func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	following, err := h.follows.IsFollowing(c.Request().Context(), targetID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"following": following})
}

// GetFollowers lists the users following a user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	users, err := h.follows.GetUserFollowers(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, users)
}

// GetFollowing lists the users a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	users, err := h.follows.GetUserFollowing(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, users)
}
