package model

import "time"

type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_post_author" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	DeletedBy *string   `gorm:"size:16" json:"deleted_by,omitempty"` // 删除者角色：admin / owner
}
