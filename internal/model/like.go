package model

import "time"

type Like struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement"`
	UserID    uint64  `gorm:"not null;uniqueIndex:uk_like_pair,priority:1"`
	PostID    uint64  `gorm:"not null;uniqueIndex:uk_like_pair,priority:2;index:idx_like_post"`
	CreatedAt time.Time
	DeletedBy *string `gorm:"size:16"`
}

func (Like) TableName() string {
	return "likes"
}
