package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/testutil"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/errorx"
)

func TestLikePostTwiceKeepsOneRow(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	post := testutil.CreatePost(t, f.db, alice, "hello")

	res, err := f.svc.Likes.LikePost(as(bob), post.ID)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, []string{views.Explore, views.Home, views.Notifications(alice.ID), views.Post(post.ID), views.Profile(alice.ID)}, f.views.Last())

	res, err = f.svc.Likes.LikePost(as(bob), post.ID)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.NotEmpty(t, res.Message)

	require.EqualValues(t, 1, f.count(t, &models.Like{}, "user_id = ? AND post_id = ?", bob.ID, post.ID))
}

func TestLikePostErrors(t *testing.T) {
	f := setup(t)
	bob := testutil.CreateUser(t, f.db, "bob")

	_, err := f.svc.Likes.LikePost(context.Background(), 1)
	requireCode(t, err, errorx.Unauthorized)

	_, err = f.svc.Likes.LikePost(as(bob), 9999)
	requireCode(t, err, errorx.NotFound)

	_, err = f.svc.Likes.UnlikePost(as(bob), 9999)
	requireCode(t, err, errorx.NotFound)

	_, err = f.svc.Likes.GetPostLikes(context.Background(), 9999)
	requireCode(t, err, errorx.NotFound)
}

func TestUnlikeNeverLikedIsNoop(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	post := testutil.CreatePost(t, f.db, alice, "hello")

	res, err := f.svc.Likes.UnlikePost(as(bob), post.ID)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Zero(t, f.views.Calls())
}

func TestSelfLikeCreatesNoNotification(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	post := testutil.CreatePost(t, f.db, alice, "hello")

	res, err := f.svc.Likes.LikePost(as(alice), post.ID)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Zero(t, f.count(t, &models.Notification{}, "1 = 1"))
	require.NotContains(t, f.views.Last(), views.Notifications(alice.ID))
}

func TestLikeNotificationIsDeduplicated(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	post := testutil.CreatePost(t, f.db, alice, "hello")

	_, err := f.svc.Likes.LikePost(as(bob), post.ID)
	require.NoError(t, err)

	list, err := f.svc.Notifications.GetUserNotifications(as(alice), true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, models.NotificationLike, list[0].Type)
	require.False(t, list[0].Read)
	require.Equal(t, "bob", list[0].Actor.Username)
	require.Equal(t, "hello", list[0].PostSnippet)

	for i := 0; i < 2; i++ {
		res, err := f.svc.Likes.UnlikePost(as(bob), post.ID)
		require.NoError(t, err)
		require.True(t, res.Success)
		res, err = f.svc.Likes.LikePost(as(bob), post.ID)
		require.NoError(t, err)
		require.True(t, res.Success)
	}
	require.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_id = ? AND creator_id = ? AND type = ? AND post_id = ?",
		alice.ID, bob.ID, models.NotificationLike, post.ID))

	// a read notification still counts as already sent
	_, err = f.svc.Notifications.MarkAllNotificationsAsRead(as(alice))
	require.NoError(t, err)
	_, err = f.svc.Likes.UnlikePost(as(bob), post.ID)
	require.NoError(t, err)
	_, err = f.svc.Likes.LikePost(as(bob), post.ID)
	require.NoError(t, err)

	count, err := f.svc.Notifications.GetUnreadNotificationCount(as(alice))
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestHasUserLikedPost(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	post := testutil.CreatePost(t, f.db, alice, "hello")

	liked, err := f.svc.Likes.HasUserLikedPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.False(t, liked)

	_, err = f.svc.Likes.LikePost(as(bob), post.ID)
	require.NoError(t, err)

	liked, err = f.svc.Likes.HasUserLikedPost(as(bob), post.ID)
	require.NoError(t, err)
	require.True(t, liked)

	likers, err := f.svc.Likes.GetPostLikes(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	require.Equal(t, bob.ID, likers[0].ID)
}

func TestInvalidationFailureDoesNotFailMutation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := New(repositories.NewStore(db), failingInvalidator{}, Options{})
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice, "hello")

	res, err := svc.Likes.LikePost(as(bob), post.ID)
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestFollowSelfIsValidationError(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")

	_, err := f.svc.Follows.FollowUser(as(alice), alice.ID)
	requireCode(t, err, errorx.Validation)

	// even with a stray self edge already stored
	require.NoError(t, f.db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: alice.ID}).Error)
	_, err = f.svc.Follows.FollowUser(as(alice), alice.ID)
	requireCode(t, err, errorx.Validation)
	_, err = f.svc.Follows.UnfollowUser(as(alice), alice.ID)
	requireCode(t, err, errorx.Validation)

	require.Zero(t, f.count(t, &models.Notification{}, "1 = 1"))
}

func TestFollowLifecycle(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	_, err := f.svc.Follows.FollowUser(context.Background(), bob.ID)
	requireCode(t, err, errorx.Unauthorized)
	_, err = f.svc.Follows.FollowUser(as(alice), 9999)
	requireCode(t, err, errorx.NotFound)

	res, err := f.svc.Follows.FollowUser(as(alice), bob.ID)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Contains(t, f.views.Last(), views.Profile(bob.ID))
	require.Contains(t, f.views.Last(), views.Notifications(bob.ID))

	res, err = f.svc.Follows.FollowUser(as(alice), bob.ID)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.EqualValues(t, 1, f.count(t, &models.Follow{}, "follower_id = ? AND following_id = ?", alice.ID, bob.ID))
	require.EqualValues(t, 1, f.count(t, &models.Notification{}, "user_id = ? AND type = ?", bob.ID, models.NotificationFollow))

	following, err := f.svc.Follows.IsFollowing(as(alice), bob.ID)
	require.NoError(t, err)
	require.True(t, following)
	following, err = f.svc.Follows.IsFollowing(context.Background(), bob.ID)
	require.NoError(t, err)
	require.False(t, following)

	followers, err := f.svc.Follows.GetUserFollowers(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.Equal(t, alice.ID, followers[0].ID)

	followingList, err := f.svc.Follows.GetUserFollowing(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, followingList, 1)
	require.Equal(t, bob.ID, followingList[0].ID)

	res, err = f.svc.Follows.UnfollowUser(as(alice), bob.ID)
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = f.svc.Follows.UnfollowUser(as(alice), bob.ID)
	require.NoError(t, err)
	require.False(t, res.Success)

	_, err = f.svc.Follows.GetUserFollowers(context.Background(), 9999)
	requireCode(t, err, errorx.NotFound)
}

func TestCommentLifecycle(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	post := testutil.CreatePost(t, f.db, alice, "hello")

	_, err := f.svc.Comments.CreateComment(as(bob), post.ID, models.CreateCommentRequest{Content: "  "})
	requireCode(t, err, errorx.Validation)
	_, err = f.svc.Comments.CreateComment(as(bob), post.ID, models.CreateCommentRequest{Content: strings.Repeat("a", 501)})
	requireCode(t, err, errorx.Validation)
	_, err = f.svc.Comments.CreateComment(as(bob), 9999, models.CreateCommentRequest{Content: "hi"})
	requireCode(t, err, errorx.NotFound)
	_, err = f.svc.Comments.CreateComment(context.Background(), post.ID, models.CreateCommentRequest{Content: "hi"})
	requireCode(t, err, errorx.Unauthorized)

	comment, err := f.svc.Comments.CreateComment(as(bob), post.ID, models.CreateCommentRequest{Content: "nice post"})
	require.NoError(t, err)
	require.Equal(t, "bob", comment.Author.Username)
	require.EqualValues(t, 1, f.count(t, &models.Notification{}, "type = ? AND comment_id = ?", models.NotificationComment, comment.ID))

	own, err := f.svc.Comments.CreateComment(as(alice), post.ID, models.CreateCommentRequest{Content: "thanks"})
	require.NoError(t, err)
	require.Zero(t, f.count(t, &models.Notification{}, "comment_id = ?", own.ID))

	comments, err := f.svc.Comments.GetPostComments(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, own.ID, comments[0].ID)

	requireCode(t, f.svc.Comments.DeleteComment(as(alice), comment.ID), errorx.Forbidden)
	require.NoError(t, f.svc.Comments.DeleteComment(as(bob), comment.ID))
	requireCode(t, f.svc.Comments.DeleteComment(as(bob), comment.ID), errorx.NotFound)
	require.Zero(t, f.count(t, &models.Notification{}, "comment_id = ?", comment.ID))
}

func TestNotificationOwnershipAndIdempotency(t *testing.T) {
	f := setup(t)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	_, err := f.svc.Follows.FollowUser(as(alice), bob.ID)
	require.NoError(t, err)
	list, err := f.svc.Notifications.GetUserNotifications(as(bob), false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	requireCode(t, f.svc.Notifications.MarkNotificationAsRead(as(alice), id), errorx.Forbidden)
	requireCode(t, f.svc.Notifications.MarkNotificationAsRead(as(bob), 9999), errorx.NotFound)
	requireCode(t, f.svc.Notifications.MarkNotificationAsRead(context.Background(), id), errorx.Unauthorized)

	for i := 0; i < 2; i++ {
		require.NoError(t, f.svc.Notifications.MarkNotificationAsRead(as(bob), id))
		var n models.Notification
		require.NoError(t, f.db.First(&n, id).Error)
		require.True(t, n.IsRead)
	}

	updated, err := f.svc.Notifications.MarkAllNotificationsAsRead(as(bob))
	require.NoError(t, err)
	require.Zero(t, updated)

	requireCode(t, f.svc.Notifications.DeleteNotification(as(alice), id), errorx.Forbidden)
	require.NoError(t, f.svc.Notifications.DeleteNotification(as(bob), id))
	requireCode(t, f.svc.Notifications.DeleteNotification(as(bob), id), errorx.NotFound)

	_, err = f.svc.Notifications.GetUnreadNotificationCount(context.Background())
	requireCode(t, err, errorx.Unauthorized)
}

// A posts, B likes, A reads the notification, B unlikes.
func TestLikeNotificationScenario(t *testing.T) {
	f := setup(t)
	a := testutil.CreateUser(t, f.db, "usera")
	b := testutil.CreateUser(t, f.db, "userb")

	post, err := f.svc.Posts.CreatePost(as(a), models.CreatePostRequest{Content: "hello"})
	require.NoError(t, err)

	_, err = f.svc.Likes.LikePost(as(b), post.ID)
	require.NoError(t, err)

	unread, err := f.svc.Notifications.GetUnreadNotificationCount(as(a))
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)

	list, err := f.svc.Notifications.GetUserNotifications(as(a), true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, f.svc.Notifications.MarkNotificationAsRead(as(a), list[0].ID))

	unread, err = f.svc.Notifications.GetUnreadNotificationCount(as(a))
	require.NoError(t, err)
	require.Zero(t, unread)

	res, err := f.svc.Likes.UnlikePost(as(b), post.ID)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Zero(t, f.count(t, &models.Like{}, "user_id = ? AND post_id = ?", b.ID, post.ID))

	var n models.Notification
	require.NoError(t, f.db.First(&n, list[0].ID).Error)
	require.True(t, n.IsRead)
	require.Equal(t, b.ID, n.CreatorID)
}
