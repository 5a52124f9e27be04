package services

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/errorx"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

type FollowService struct {
	base
}

var errSelfFollow = errorx.New(errorx.Validation, "You cannot follow yourself")

func (s *FollowService) FollowUser(ctx context.Context, targetID uint) (res models.Result, err error) {
	defer func() { metrics.ObserveMutation("follow_user", res.Success, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return res, err
	}
	if callerID == targetID {
		return res, errSelfFollow
	}

	var created, sent bool
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.GetUserByID(ctx, targetID); err != nil {
			return storeError(err, "User not found", "Failed to load user")
		}

		var err error
		created, err = tx.Follows.CreateFollow(ctx, callerID, targetID)
		if err != nil || !created {
			return err
		}

		sent, err = notify(ctx, tx, &models.Notification{
			UserID:    targetID,
			CreatorID: callerID,
			Type:      models.NotificationFollow,
		})
		return err
	})
	if err != nil {
		return res, failure(err, "Failed to follow user")
	}
	if !created {
		return models.Noop("You are already following this user"), nil
	}

	keys := []string{views.Home, views.Explore, views.Profile(callerID), views.Profile(targetID)}
	if sent {
		notified(models.NotificationFollow)
		keys = append(keys, views.Notifications(targetID))
	}
	s.invalidate(ctx, keys...)
	return models.OK("User followed"), nil
}

func (s *FollowService) UnfollowUser(ctx context.Context, targetID uint) (res models.Result, err error) {
	defer func() { metrics.ObserveMutation("unfollow_user", res.Success, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return res, err
	}
	if callerID == targetID {
		return res, errorx.New(errorx.Validation, "You cannot unfollow yourself")
	}
	if _, err := s.requireUser(ctx, targetID); err != nil {
		return res, err
	}

	removed, err := s.store.Follows.DeleteFollow(ctx, callerID, targetID)
	if err != nil {
		return res, failure(err, "Failed to unfollow user")
	}
	if !removed {
		return models.Noop("You are not following this user"), nil
	}

	s.invalidate(ctx, views.Home, views.Explore, views.Profile(callerID), views.Profile(targetID))
	return models.OK("User unfollowed"), nil
}

// IsFollowing is false for anonymous callers and for the caller's own id.
func (s *FollowService) IsFollowing(ctx context.Context, targetID uint) (bool, error) {
	callerID := xcontext.UserID(ctx)
	if callerID == 0 || callerID == targetID {
		return false, nil
	}
	following, err := s.store.Follows.IsFollowing(ctx, callerID, targetID)
	if err != nil {
		return false, failure(err, "Failed to check follow")
	}
	return following, nil
}

func (s *FollowService) GetUserFollowers(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.store.Follows.GetFollowers(ctx, userID)
	if err != nil {
		return nil, failure(err, "Failed to load followers")
	}
	return toCompacts(users), nil
}

func (s *FollowService) GetUserFollowing(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.store.Follows.GetFollowing(ctx, userID)
	if err != nil {
		return nil, failure(err, "Failed to load following")
	}
	return toCompacts(users), nil
}
