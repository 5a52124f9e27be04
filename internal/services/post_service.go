package services

import (
	"context"

	"github.com/anonto42/pulse/backend/internal/metrics"
	"github.com/anonto42/pulse/backend/internal/models"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/errorx"
	"github.com/anonto42/pulse/backend/pkg/xcontext"
)

type PostService struct {
	base
	pageSize int
}

func (s *PostService) CreatePost(ctx context.Context, req models.CreatePostRequest) (_ *models.PostSummary, err error) {
	defer func() { metrics.ObserveMutation("create_post", err == nil, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	req.Content = cleanText(req.Content)
	if req.ImageURL != nil && *req.ImageURL == "" {
		req.ImageURL = nil
	}
	if err := validate.Struct(req); err != nil {
		return nil, validationError("Post content", err)
	}

	author, err := s.requireUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: callerID, Content: req.Content, ImageURL: req.ImageURL}
	if err := s.store.Posts.CreatePost(ctx, post); err != nil {
		return nil, failure(err, "Failed to create post")
	}

	s.invalidate(ctx, views.Home, views.Explore, views.Profile(callerID))

	summary := models.NewPostSummary(models.PostStats{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		CreatedAt: post.CreatedAt,
	}, author.ToCompact())
	return &summary, nil
}

// DeletePost removes the caller's post along with its comments, likes and notifications.
func (s *PostService) DeletePost(ctx context.Context, id uint) (err error) {
	defer func() { metrics.ObserveMutation("delete_post", err == nil, err) }()

	callerID, err := requireCaller(ctx)
	if err != nil {
		return err
	}

	post, err := s.store.Posts.GetPostByID(ctx, id)
	if err != nil {
		return storeError(err, "Post not found", "Failed to load post")
	}
	if post.AuthorID != callerID {
		return errorx.New(errorx.Forbidden, "You can only delete your own posts")
	}

	if err := s.store.Posts.DeletePost(ctx, id); err != nil {
		return storeError(err, "Post not found", "Failed to delete post")
	}

	s.invalidate(ctx, views.Home, views.Explore, views.Post(id), views.Profile(callerID))
	return nil
}

// GetFeedPosts pages through every post, newest first.
func (s *PostService) GetFeedPosts(ctx context.Context, page, limit int) (*models.Page[models.PostSummary], error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total, err := s.store.Posts.CountPosts(ctx)
	if err != nil {
		return nil, failure(err, "Failed to count posts")
	}
	rows, err := s.store.Posts.ListFeed(ctx, xcontext.UserID(ctx), (page-1)*limit, limit)
	if err != nil {
		return nil, failure(err, "Failed to load feed")
	}
	items, err := s.summaries(ctx, rows)
	if err != nil {
		return nil, err
	}

	p := models.NewPage(items, total, page, limit)
	return &p, nil
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint) ([]models.PostSummary, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.store.Posts.ListByAuthor(ctx, userID, xcontext.UserID(ctx))
	if err != nil {
		return nil, failure(err, "Failed to load posts")
	}
	return s.summaries(ctx, rows)
}

func (s *PostService) GetPostDetail(ctx context.Context, id uint) (*models.PostDetail, error) {
	stats, err := s.store.Posts.GetPostStats(ctx, id, xcontext.UserID(ctx))
	if err != nil {
		return nil, storeError(err, "Post not found", "Failed to load post")
	}
	summaries, err := s.summaries(ctx, []models.PostStats{*stats})
	if err != nil {
		return nil, err
	}

	comments, err := s.store.Comments.GetCommentsByPostID(ctx, id)
	if err != nil {
		return nil, failure(err, "Failed to load comments")
	}
	likerIDs, err := s.store.Likes.GetLikerIDs(ctx, id)
	if err != nil {
		return nil, failure(err, "Failed to load likes")
	}

	detail := &models.PostDetail{
		PostSummary: summaries[0],
		Comments:    make([]models.CommentView, 0, len(comments)),
		LikerIDs:    likerIDs,
	}
	for i := range comments {
		detail.Comments = append(detail.Comments, comments[i].ToView())
	}
	return detail, nil
}

func (s *PostService) summaries(ctx context.Context, rows []models.PostStats) ([]models.PostSummary, error) {
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AuthorID)
	}
	authors, err := s.userMap(ctx, ids)
	if err != nil {
		return nil, failure(err, "Failed to load authors")
	}

	out := make([]models.PostSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.NewPostSummary(r, authors[r.AuthorID]))
	}
	return out, nil
}
