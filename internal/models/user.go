package models

import "time"

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FirebaseUID string    `json:"-" gorm:"size:128;not null;uniqueIndex"` // stable identity from the auth provider
	Username    string    `json:"username" gorm:"size:50;not null;uniqueIndex"`
	DisplayName string    `json:"display_name" gorm:"size:100"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	Email       string    `json:"email,omitempty" gorm:"size:255;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCompact is the author/actor shape embedded in other projections.
type UserCompact struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (u *User) ToCompact() UserCompact {
	if u == nil {
		return UserCompact{}
	}
	return UserCompact{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// Profile is a user with aggregate counts, as seen by the caller.
type Profile struct {
	UserCompact
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	PostsCount     int64     `json:"posts_count"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	FollowedByMe   bool      `json:"followed_by_me"`
}

// UserStats carries the counts behind a Profile.
type UserStats struct {
	PostsCount     int64
	FollowersCount int64
	FollowingCount int64
}

// SuggestedUser is an entry of the who-to-follow list.
type SuggestedUser struct {
	UserCompact
	FollowersCount int64 `json:"followers_count"`
	MutualCount    int64 `json:"mutual_count,omitempty"` // followees of the caller who follow this user
}

// Identity is a caller vouched for by the external identity provider.
type Identity struct {
	UID               string
	Email             string
	Name              string
	AvatarURL         string
	RequestedUsername string
}

type FirebaseLoginRequest struct {
	IDToken  string `json:"idToken" validate:"required"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
}
