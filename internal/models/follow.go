package models

import "time"

// Follow is a directed edge from follower to followee.
type Follow struct {
	FollowerID  uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowingID uint      `json:"following_id" gorm:"primaryKey;autoIncrement:false;index"`
	Follower    *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following   *User     `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
}
