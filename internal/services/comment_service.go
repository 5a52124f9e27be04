package services

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/errorx"
)

type CommentService struct {
	base
}

func (s *CommentService) CreateComment(ctx context.Context, postID uint, req models.CreateCommentRequest) (_ *models.CommentView, err error) {
	defer func() { metrics.ObserveMutation("create_comment", err == nil, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	req.Content = cleanText(req.Content)
	if err := validate.Struct(req); err != nil {
		return nil, validationError("Comment", err)
	}

	var (
		comment  *models.Comment
		authorID uint
		sent     bool
	)
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		post, err := tx.Posts.GetPostByID(ctx, postID)
		if err != nil {
			return storeError(err, "Post not found", "Failed to load post")
		}
		authorID = post.AuthorID

		author, err := tx.Users.GetUserByID(ctx, callerID)
		if err != nil {
			return storeError(err, "User not found", "Failed to load user")
		}

		comment = &models.Comment{PostID: postID, AuthorID: callerID, Content: req.Content}
		if err := tx.Comments.CreateComment(ctx, comment); err != nil {
			return err
		}
		comment.Author = author

		sent, err = notify(ctx, tx, &models.Notification{
			UserID:    post.AuthorID,
			CreatorID: callerID,
			Type:      models.NotificationComment,
			PostID:    &postID,
			CommentID: &comment.ID,
		})
		return err
	})
	if err != nil {
		return nil, failure(err, "Failed to create comment")
	}

	keys := []string{views.Home, views.Post(postID)}
	if sent {
		notified(models.NotificationComment)
		keys = append(keys, views.Notifications(authorID))
	}
	s.invalidate(ctx, keys...)

	view := comment.ToView()
	return &view, nil
}

// GetPostComments lists comments newest first.
func (s *CommentService) GetPostComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	if _, err := s.store.Posts.GetPostByID(ctx, postID); err != nil {
		return nil, storeError(err, "Post not found", "Failed to load post")
	}
	comments, err := s.store.Comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, failure(err, "Failed to load comments")
	}
	out := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		out = append(out, comments[i].ToView())
	}
	return out, nil
}

// DeleteComment is allowed for the comment's author only.
func (s *CommentService) DeleteComment(ctx context.Context, id uint) (err error) {
	defer func() { metrics.ObserveMutation("delete_comment", err == nil, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return err
	}

	comment, err := s.store.Comments.GetCommentByID(ctx, id)
	if err != nil {
		return storeError(err, "Comment not found", "Failed to load comment")
	}
	if comment.AuthorID != callerID {
		return errorx.New(errorx.Forbidden, "You can only delete your own comments")
	}

	if err := s.store.Comments.DeleteComment(ctx, id); err != nil {
		return storeError(err, "Comment not found", "Failed to delete comment")
	}

	s.invalidate(ctx, views.Home, views.Post(comment.PostID))
	return nil
}
