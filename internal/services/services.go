// Package services holds the engagement core: authorization, idempotency and
// notification fan-out for posts, likes, follows, comments and notifications.
// The caller is always taken from the request context, never from payloads.
package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/errorx"
	"github.com/anonto42/pulse/backend/pkg/logger"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

const (
	defaultPageSize    = 10
	maxPageSize        = 50
	defaultSuggestions = 5
	maxSuggestions     = 20
	maxSearchResults   = 20
)

type Options struct {
	FeedPageSize        int
	SuggestedUsersLimit int
}

// Services bundles every engagement service over one store.
type Services struct {
	Posts         *PostService
	Likes         *LikeService
	Follows       *FollowService
	Comments      *CommentService
	Notifications *NotificationService
	Users         *UserService
}

func New(store *repositories.Store, inv views.Invalidator, opts Options) *Services {
	if inv == nil {
		inv = views.Nop{}
	}
	b := base{store: store, views: inv}
	return &Services{
		Posts:         &PostService{base: b, pageSize: orDefault(opts.FeedPageSize, defaultPageSize)},
		Likes:         &LikeService{base: b},
		Follows:       &FollowService{base: b},
		Comments:      &CommentService{base: b},
		Notifications: &NotificationService{base: b},
		Users:         &UserService{base: b, suggestions: orDefault(opts.SuggestedUsersLimit, defaultSuggestions)},
	}
}

type base struct {
	store *repositories.Store
	views views.Invalidator
}

// invalidate is best-effort: the mutation has already committed.
func (b base) invalidate(ctx context.Context, keys ...string) {
	if err := b.views.Invalidate(ctx, keys...); err != nil {
		logger.Logger.Warn("view invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// userMap loads the authors/actors referenced by a listing.
func (b base) userMap(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error) {
	users, err := b.store.Users.GetUsersByIDs(ctx, unique(ids))
	if err != nil {
		return nil, err
	}
	out := make(map[uint]models.UserCompact, len(users))
	for i := range users {
		out[users[i].ID] = users[i].ToCompact()
	}
	return out, nil
}

func (b base) requireUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := b.store.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found", "Failed to load user")
	}
	return user, nil
}

func requireCaller(ctx context.Context) (uint, error) {
	id := xcontext.UserID(ctx)
	if id == 0 {
		return 0, errorx.ErrUnauthorized
	}
	return id, nil
}

// storeError maps a missing row to NotFound and anything else to OperationFailed.
func storeError(err error, notFound, failed string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.New(errorx.NotFound, notFound)
	}
	return failure(err, failed)
}

func failure(err error, message string) error {
	if err == nil {
		return nil
	}
	var coded *errorx.Error
	if !errors.As(err, &coded) {
		logger.Logger.Error(message, zap.Error(err))
	}
	return errorx.Wrap(err, message)
}

func toCompacts(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out
}

func unique(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
