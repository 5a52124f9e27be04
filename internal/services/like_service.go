package services

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

type LikeService struct {
	base
}

// LikePost likes postID once. A repeated like is a no-op result, not an error.
// The like and its notification commit together.
func (s *LikeService) LikePost(ctx context.Context, postID uint) (res models.Result, err error) {
	defer func() { metrics.ObserveMutation("like_post", res.Success, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return res, err
	}

	var (
		authorID uint
		created  bool
		sent     bool
	)
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByID(ctx, postID)
		if err != nil {
			return storeError(err, "Post not found", "Failed to load post")
		}
		authorID = post.AuthorID

		created, err = tx.Likes.CreateLike(ctx, callerID, postID)
		if err != nil || !created {
			return err
		}

		sent, err = notify(ctx, tx, &models.Notification{
			UserID:    post.AuthorID,
			CreatorID: callerID,
			Type:      models.NotificationLike,
			PostID:    &postID,
		})
		return err
	})
	if err != nil {
		return res, failure(err, "Failed to like post")
	}
	if !created {
		return models.Noop("You have already liked this post"), nil
	}

	keys := []string{views.Home, views.Explore, views.Post(postID), views.Profile(authorID)}
	if sent {
		notified(models.NotificationLike)
		keys = append(keys, views.Notifications(authorID))
	}
	s.invalidate(ctx, keys...)
	return models.OK("Post liked"), nil
}

// UnlikePost removes the caller's like. Notifications already sent stay.
func (s *LikeService) UnlikePost(ctx context.Context, postID uint) (res models.Result, err error) {
	defer func() { metrics.ObserveMutation("unlike_post", res.Success, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return res, err
	}

	post, err := s.store.Posts.GetPostByID(ctx, postID)
	if err != nil {
		return res, storeError(err, "Post not found", "Failed to load post")
	}

	removed, err := s.store.Likes.DeleteLike(ctx, callerID, postID)
	if err != nil {
		return res, failure(err, "Failed to unlike post")
	}
	if !removed {
		return models.Noop("You have not liked this post"), nil
	}

	s.invalidate(ctx, views.Home, views.Explore, views.Post(postID), views.Profile(post.AuthorID))
	return models.OK("Post unliked"), nil
}

// GetPostLikes lists who liked postID, most recent first.
func (s *LikeService) GetPostLikes(ctx context.Context, postID uint) ([]models.UserCompact, error) {
	if _, err := s.store.Posts.GetPostByID(ctx, postID); err != nil {
		return nil, storeError(err, "Post not found", "Failed to load post")
	}
	users, err := s.store.Likes.GetLikers(ctx, postID)
	if err != nil {
		return nil, failure(err, "Failed to load likes")
	}
	return toCompacts(users), nil
}

// HasUserLikedPost is false for anonymous callers.
func (s *LikeService) HasUserLikedPost(ctx context.Context, postID uint) (bool, error) {
	callerID := xcontext.UserID(ctx)
	if callerID == 0 {
		return false, nil
	}
	liked, err := s.store.Likes.HasUserLikedPost(ctx, callerID, postID)
	if err != nil {
		return false, failure(err, "Failed to check like")
	}
	return liked, nil
}
