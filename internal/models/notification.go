package models

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
	NotificationFollow  NotificationType = "FOLLOW"
)

// Notification is a materialized notification row, read by polling.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index:idx_notifications_recipient"` // recipient
	User      *User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatorID uint             `json:"creator_id" gorm:"not null;index"` // actor
	Creator   *User            `json:"-" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Type      NotificationType `json:"type" gorm:"size:16;not null"`
	PostID    *uint            `json:"post_id,omitempty" gorm:"index"`
	Post      *Post            `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CommentID *uint            `json:"comment_id,omitempty"`
	Comment   *Comment         `json:"-" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
	IsRead    bool             `json:"read" gorm:"column:is_read;not null;default:false;index:idx_notifications_recipient"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
}

// NotificationView is a notification with its actor and a snippet of the post involved.
type NotificationView struct {
	ID          uint             `json:"id"`
	Type        NotificationType `json:"type"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
	Actor       UserCompact      `json:"actor"`
	PostID      *uint            `json:"post_id,omitempty"`
	CommentID   *uint            `json:"comment_id,omitempty"`
	PostSnippet string           `json:"post_snippet,omitempty"`
}

const snippetLength = 80

// ToView expects Creator and Post to be preloaded.
func (n *Notification) ToView() NotificationView {
	v := NotificationView{
		ID:        n.ID,
		Type:      n.Type,
		Read:      n.IsRead,
		CreatedAt: n.CreatedAt,
		Actor:     n.Creator.ToCompact(),
		PostID:    n.PostID,
		CommentID: n.CommentID,
	}
	if n.Post != nil {
		r := []rune(n.Post.Content)
		if len(r) > snippetLength {
			r = append(r[:snippetLength], '…')
		}
		v.PostSnippet = string(r)
	}
	return v
}
