package model

import "time"

// 动态动词
const (
	VerbPostCreated = "POST_CREATED"
	VerbPostDeleted = "POST_DELETED"
	VerbFollowed    = "FOLLOWED"
	VerbUnfollowed  = "UNFOLLOWED"
	VerbBlocked     = "BLOCKED"
	VerbUnblocked   = "UNBLOCKED"
	VerbLiked       = "LIKED"
	VerbUnliked     = "UNLIKED"
	VerbUserDeleted = "USER_DELETED"
)

// 动态对象类型
const (
	ObjectPost = "post"
	ObjectUser = "user"
	ObjectLike = "like"
)

// Activity 只追加的用户行为记录，动态流的唯一数据来源
type Activity struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	ActorID      uint64    `gorm:"not null;index:idx_activity_actor" json:"actor_id"`
	Verb         string    `gorm:"size:32;not null" json:"verb"`
	ObjectType   string    `gorm:"size:16;not null" json:"object_type"`
	ObjectID     *uint64   `json:"object_id,omitempty"`
	TargetUserID *uint64   `json:"target_user_id,omitempty"`
	CreatedAt    time.Time `gorm:"index:idx_activity_created" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

// ActivityOutbox 动态事件投递表
type ActivityOutbox struct {
	ID         uint64 `gorm:"primaryKey"`
	ActivityID uint64 `gorm:"not null;index"`
	Verb       string `gorm:"size:32;not null"`
	ActorID    uint64 `gorm:"not null"`
	Payload    string `gorm:"type:text;not null"`
	Status     int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry      int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ActivityOutbox) TableName() string { return "activity_outbox" }

// Models AutoMigrate 需要的全部表
func Models() []any {
	return []any{
		&User{},
		&Post{},
		&Follow{},
		&Like{},
		&Block{},
		&Activity{},
		&ActivityOutbox{},
	}
}
