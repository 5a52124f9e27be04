package optimistic

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/models"
)

// LikeState is what a like button renders.
type LikeState struct {
	Liked bool
	Count int64
}

// LikeAPI is the part of the engagement surface a like button talks to.
type LikeAPI interface {
	LikePost(ctx context.Context, postID uint) (models.Result, error)
	UnlikePost(ctx context.Context, postID uint) (models.Result, error)
}

type LikeButton struct {
	*Widget[LikeState]
}

// NewLikeButton toggles from the optimistic value. A no-op result (already
// liked, never liked) still settles on the toggled state since that is what the
// server now holds.
func NewLikeButton(api LikeAPI, postID uint, server LikeState, refresh func(context.Context)) *LikeButton {
	mutate := func(ctx context.Context, next LikeState) (LikeState, error) {
		var err error
		if next.Liked {
			_, err = api.LikePost(ctx, postID)
		} else {
			_, err = api.UnlikePost(ctx, postID)
		}
		return next, err
	}
	return &LikeButton{Widget: NewWidget(server, mutate, refresh)}
}

// Toggle flips liked and adjusts the count by one.
func (b *LikeButton) Toggle(ctx context.Context) (LikeState, error) {
	cur := b.Value()
	next := LikeState{Liked: !cur.Liked, Count: cur.Count + 1}
	if cur.Liked {
		next.Count = cur.Count - 1
		if next.Count < 0 {
			next.Count = 0
		}
	}
	return b.Apply(ctx, next)
}

type FollowAPI interface {
	FollowUser(ctx context.Context, userID uint) (models.Result, error)
	UnfollowUser(ctx context.Context, userID uint) (models.Result, error)
}

type FollowButton struct {
	*Widget[bool]
}

func NewFollowButton(api FollowAPI, userID uint, following bool, refresh func(context.Context)) *FollowButton {
	mutate := func(ctx context.Context, next bool) (bool, error) {
		var err error
		if next {
			_, err = api.FollowUser(ctx, userID)
		} else {
			_, err = api.UnfollowUser(ctx, userID)
		}
		return next, err
	}
	return &FollowButton{Widget: NewWidget(following, mutate, refresh)}
}

func (b *FollowButton) Toggle(ctx context.Context) (bool, error) {
	return b.Apply(ctx, !b.Value())
}
