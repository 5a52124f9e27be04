package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(public, protected *echo.Group) {
	public.GET("/posts/:id/comments", h.GetComments)
	protected.POST("/posts/:id/comments", h.CreateComment)
	protected.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	comment, err := h.comments.CreateComment(c.Request().Context(), postID, req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, comment)
}

// GetComments lists a post's comments, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.comments.GetPostComments(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, comments)
}

// DeleteComment deletes a comment written by the caller
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.comments.DeleteComment(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return respondMessage(c, "Comment deleted")
}
