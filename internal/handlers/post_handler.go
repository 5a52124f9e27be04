package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/services"
	"github.com/anonto42/pulse/backend/internal/views"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
	views views.Invalidator
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, inv views.Invalidator) *PostHandler {
	return &PostHandler{posts: posts, views: inv}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(public, protected *echo.Group) {
	public.GET("/posts", h.GetFeed)
	public.GET("/posts/:id", h.GetPost)
	protected.POST("/posts", h.CreatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	post, err := h.posts.CreatePost(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, post)
}

// GetFeed pages through the home feed, newest first
func (h *PostHandler) GetFeed(c echo.Context) error {
	setViewVersion(c, h.views, views.Home)

	page, err := h.posts.GetFeedPosts(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, page)
}

// GetPost returns a post with its comments and likers
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	setViewVersion(c, h.views, views.Post(id))

	detail, err := h.posts.GetPostDetail(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, detail)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.posts.DeletePost(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return respondMessage(c, "Post deleted")
}
