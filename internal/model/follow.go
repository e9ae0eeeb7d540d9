package model

import "time"

type Follow struct {
	ID          uint64 `gorm:"primaryKey"`
	FollowerID  uint64 `gorm:"not null;uniqueIndex:uk_follow_pair,priority:1"`
	FollowingID uint64 `gorm:"not null;uniqueIndex:uk_follow_pair,priority:2;index:idx_following_id"`
	CreatedAt   time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follows"
}
