package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/pulse/backend/internal/services"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
	views         views.Invalidator
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, inv views.Invalidator) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, views: inv}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(protected *echo.Group) {
	protected.GET("/notifications", h.GetNotifications)
	protected.GET("/notifications/unread-count", h.GetUnreadCount)
	protected.PUT("/notifications/read-all", h.MarkAllAsRead)
	protected.PUT("/notifications/:id/read", h.MarkAsRead)
	protected.DELETE("/notifications/:id", h.DeleteNotification)
}

// GetNotifications retrieves the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	setViewVersion(c, h.views, views.Notifications(xcontext.UserID(ctx)))

	list, err := h.notifications.GetUserNotifications(ctx, c.QueryParam("unread") == "true")
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, list)
}

// GetUnreadCount retrieves the count of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.GetUnreadNotificationCount(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks a specific notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.MarkNotificationAsRead(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return respondMessage(c, "Notification marked as read")
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	updated, err := h.notifications.MarkAllNotificationsAsRead(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"updated": updated})
}

// DeleteNotification deletes a notification owned by the caller
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.DeleteNotification(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return respondMessage(c, "Notification deleted")
}
