package services

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/errorx"
)

type NotificationService struct {
	base
}

// GetUserNotifications lists the caller's notifications newest first.
func (s *NotificationService) GetUserNotifications(ctx context.Context, unreadOnly bool) ([]models.NotificationView, error) {
	callerID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Notifications.GetByRecipientID(ctx, callerID, unreadOnly)
	if err != nil {
		return nil, failure(err, "Failed to load notifications")
	}
	out := make([]models.NotificationView, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToView())
	}
	return out, nil
}

func (s *NotificationService) GetUnreadNotificationCount(ctx context.Context) (int64, error) {
	callerID, err := requireCaller(ctx)
	if err != nil {
		return 0, err
	}
	count, err := s.store.Notifications.GetUnreadCount(ctx, callerID)
	if err != nil {
		return 0, failure(err, "Failed to count notifications")
	}
	return count, nil
}

// MarkNotificationAsRead is idempotent: an already-read notification stays read.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, id uint) (err error) {
	defer func() { metrics.ObserveMutation("mark_notification_read", err == nil, err) }()

	callerID, err := s.owned(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Notifications.MarkAsRead(ctx, id); err != nil {
		return failure(err, "Failed to mark notification as read")
	}
	s.invalidate(ctx, views.Notifications(callerID))
	return nil
}

// MarkAllNotificationsAsRead returns how many notifications changed.
func (s *NotificationService) MarkAllNotificationsAsRead(ctx context.Context) (_ int64, err error) {
	var updated int64
	defer func() { metrics.ObserveMutation("mark_all_notifications_read", updated > 0, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return 0, err
	}
	updated, err = s.store.Notifications.MarkAllAsRead(ctx, callerID)
	if err != nil {
		return 0, failure(err, "Failed to mark notifications as read")
	}
	if updated > 0 {
		s.invalidate(ctx, views.Notifications(callerID))
	}
	return updated, nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id uint) (err error) {
	defer func() { metrics.ObserveMutation("delete_notification", err == nil, err) }()

	callerID, err := s.owned(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Notifications.DeleteNotification(ctx, id); err != nil {
		return storeError(err, "Notification not found", "Failed to delete notification")
	}
	s.invalidate(ctx, views.Notifications(callerID))
	return nil
}

// owned checks that notification id exists and belongs to the caller.
func (s *NotificationService) owned(ctx context.Context, id uint) (uint, error) {
	callerID, err := requireCaller(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.store.Notifications.GetNotificationByID(ctx, id)
	if err != nil {
		return 0, storeError(err, "Notification not found", "Failed to load notification")
	}
	if n.UserID != callerID {
		return 0, errorx.New(errorx.Forbidden, "You can only manage your own notifications")
	}
	return callerID, nil
}
