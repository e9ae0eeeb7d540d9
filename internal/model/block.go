package model

import "time"

type Block struct {
	ID            uint64 `gorm:"primaryKey"`
	BlockerID     uint64 `gorm:"not null;uniqueIndex:uk_block_pair,priority:1"`
	BlockedUserID uint64 `gorm:"not null;uniqueIndex:uk_block_pair,priority:2;index:idx_blocked_user_id"`
	CreatedAt     time.Time
}

func (Block) TableName() string {
	return "blocks"
}
