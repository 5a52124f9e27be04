package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/pulse/backend/internal/services"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likes *services.LikeService
}

func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(public, protected *echo.Group) {
	public.GET("/posts/:id/likes", h.GetPostLikes)
	protected.POST("/posts/:id/likes", h.LikePost)
	protected.DELETE("/posts/:id/likes", h.UnlikePost)
	protected.GET("/posts/:id/likes/status", h.GetLikeStatus)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.likes.LikePost(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return respondResult(c, res)
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.likes.UnlikePost(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return respondResult(c, res)
}

// GetPostLikes lists the users who liked a post, most recent first
func (h *LikeHandler) GetPostLikes(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	users, err := h.likes.GetPostLikes(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, users)
}

func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	liked, err := h.likes.HasUserLikedPost(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"liked": liked})
}
