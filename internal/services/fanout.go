package services

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
)

// notify writes n inside tx. Self-notifications are skipped, and a LIKE is
// written at most once per (recipient, actor, post) whether or not the earlier
// one was read. Reports whether a row was written.
func notify(ctx context.Context, tx *repositories.Store, n *models.Notification) (bool, error) {
	if n.UserID == n.CreatorID {
		return false, nil
	}
	if n.Type == models.NotificationLike && n.PostID != nil {
		exists, err := tx.Notifications.HasLikeNotification(ctx, n.UserID, n.CreatorID, *n.PostID)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}
	if err := tx.Notifications.CreateNotification(ctx, n); err != nil {
		return false, err
	}
	return true, nil
}

// notified records a committed notification.
func notified(t models.NotificationType) {
	metrics.NotificationsCreated.WithLabelValues(string(t)).Inc()
}
