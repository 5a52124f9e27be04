package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/pkg/errorx"
	"github.com/anonto42/pulse/backend/pkg/logger"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

const maxUsernameLength = 30

type UserService struct {
	base
	suggestions int
}

// GetProfile resolves ref as a numeric id first, then as a username.
func (s *UserService) GetProfile(ctx context.Context, ref string) (*models.Profile, error) {
	user, err := s.resolve(ctx, strings.TrimSpace(ref))
	if err != nil {
		return nil, storeError(err, "User not found", "Failed to load user")
	}

	stats, err := s.store.Users.GetUserStats(ctx, user.ID)
	if err != nil {
		return nil, failure(err, "Failed to load profile")
	}

	profile := &models.Profile{
		UserCompact:    user.ToCompact(),
		Bio:            user.Bio,
		CreatedAt:      user.CreatedAt,
		PostsCount:     stats.PostsCount,
		FollowersCount: stats.FollowersCount,
		FollowingCount: stats.FollowingCount,
	}
	if callerID := xcontext.UserID(ctx); callerID != 0 && callerID != user.ID {
		profile.FollowedByMe, err = s.store.Follows.IsFollowing(ctx, callerID, user.ID)
		if err != nil {
			return nil, failure(err, "Failed to load profile")
		}
	}
	return profile, nil
}

// GetMe returns the caller's own profile.
func (s *UserService) GetMe(ctx context.Context) (*models.Profile, error) {
	callerID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, strconv.FormatUint(uint64(callerID), 10))
}

func (s *UserService) resolve(ctx context.Context, ref string) (*models.User, error) {
	if ref == "" {
		return nil, gorm.ErrRecordNotFound
	}
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		user, err := s.store.Users.GetUserByID(ctx, uint(id))
		if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
			return user, err
		}
	}
	return s.store.Users.GetUserByUsername(ctx, ref)
}

// GetSuggestedUsers is "who to follow". Signed-in callers get users followed by
// the people they follow, never themselves nor anyone they already follow.
// Anonymous callers get the most-followed users.
func (s *UserService) GetSuggestedUsers(ctx context.Context, limit int) ([]models.SuggestedUser, error) {
	if limit <= 0 {
		limit = s.suggestions
	}
	if limit > maxSuggestions {
		limit = maxSuggestions
	}

	var (
		out []models.SuggestedUser
		err error
	)
	if callerID := xcontext.UserID(ctx); callerID != 0 {
		out, err = s.store.Users.SuggestFromFollowees(ctx, callerID, limit)
	} else {
		out, err = s.store.Users.SuggestPopular(ctx, limit)
	}
	if err != nil {
		return nil, failure(err, "Failed to load suggestions")
	}
	return out, nil
}

func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.UserCompact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.UserCompact{}, nil
	}
	users, err := s.store.Users.SearchUsers(ctx, query, maxSearchResults)
	if err != nil {
		return nil, failure(err, "Failed to search users")
	}
	return toCompacts(users), nil
}

// SyncUser returns the user for a verified identity, creating it on first sight.
// The username comes from the requested name, the display name or the email
// local part, and gets a random suffix when taken.
func (s *UserService) SyncUser(ctx context.Context, id models.Identity) (*models.User, bool, error) {
	if id.UID == "" {
		return nil, false, errorx.ErrUnauthorized
	}

	user, err := s.store.Users.GetUserByFirebaseUID(ctx, id.UID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, failure(err, "Failed to load user")
	}

	username, err := s.pickUsername(ctx, id)
	if err != nil {
		return nil, false, err
	}

	displayName := strings.TrimSpace(id.Name)
	if displayName == "" {
		displayName = username
	}
	user = &models.User{
		FirebaseUID: id.UID,
		Username:    username,
		DisplayName: displayName,
		AvatarURL:   id.AvatarURL,
		Email:       id.Email,
	}
	if err := s.store.Users.CreateUser(ctx, user); err != nil {
		// A concurrent first login for the same identity may have won.
		if existing, lookupErr := s.store.Users.GetUserByFirebaseUID(ctx, id.UID); lookupErr == nil {
			return existing, false, nil
		}
		return nil, false, failure(err, "Failed to create user")
	}

	logger.Logger.Info("user created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, true, nil
}

func (s *UserService) pickUsername(ctx context.Context, id models.Identity) (string, error) {
	candidate := normalizeUsername(id.RequestedUsername)
	if candidate == "" {
		candidate = normalizeUsername(id.Name)
	}
	if candidate == "" {
		local, _, _ := strings.Cut(id.Email, "@")
		candidate = normalizeUsername(local)
	}
	if candidate == "" {
		candidate = "user"
	}

	taken, err := s.store.Users.UsernameExists(ctx, candidate)
	if err != nil {
		return "", failure(err, "Failed to check username")
	}
	if !taken {
		return candidate, nil
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if len(candidate) > maxUsernameLength-len(suffix)-1 {
		candidate = candidate[:maxUsernameLength-len(suffix)-1]
	}
	return candidate + "_" + suffix, nil
}

// normalizeUsername keeps lowercase ASCII letters, digits and underscores.
func normalizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-' || r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > maxUsernameLength {
		out = out[:maxUsernameLength]
	}
	return out
}
