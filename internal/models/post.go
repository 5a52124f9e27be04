package models

import "time"

const MaxPostLength = 280

// Post is a short text post, optionally carrying an image reference.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"size:280;not null"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string  `json:"content" validate:"required,max=280"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// PostStats is a post row annotated with store-computed aggregates.
type PostStats struct {
	ID            uint
	AuthorID      uint
	Content       string
	ImageURL      *string
	CreatedAt     time.Time
	LikesCount    int64
	CommentsCount int64
	LikedByMe     bool
}

// PostSummary is the feed and profile shape of a post.
type PostSummary struct {
	ID            uint        `json:"id"`
	Content       string      `json:"content"`
	ImageURL      *string     `json:"image_url,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	Author        UserCompact `json:"author"`
	LikesCount    int64       `json:"likes_count"`
	CommentsCount int64       `json:"comments_count"`
	LikedByMe     bool        `json:"liked_by_me"`
}

func NewPostSummary(s PostStats, author UserCompact) PostSummary {
	return PostSummary{
		ID:            s.ID,
		Content:       s.Content,
		ImageURL:      s.ImageURL,
		CreatedAt:     s.CreatedAt,
		Author:        author,
		LikesCount:    s.LikesCount,
		CommentsCount: s.CommentsCount,
		LikedByMe:     s.LikedByMe,
	}
}

// PostDetail is one post with its full comment list and likers.
type PostDetail struct {
	PostSummary
	Comments []CommentView `json:"comments"`
	LikerIDs []uint        `json:"liker_ids"`
}

// Page is one page of an ordered listing.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"has_more"`
}

func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(page)*int64(limit) < total,
	}
}
