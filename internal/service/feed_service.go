package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/repository/sqldb"
)

// FeedItem 动态流中的一条可读消息
type FeedItem struct {
	ID        uint64    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

var feedTemplates = map[string]string{
	model.VerbPostCreated: "User {actor} made a post",
	model.VerbPostDeleted: "User {actor} deleted a post",
	model.VerbFollowed:    "User {actor} followed User {target}",
	model.VerbUnfollowed:  "User {actor} unfollowed User {target}",
	model.VerbBlocked:     "User {actor} blocked User {target}",
	model.VerbUnblocked:   "User {actor} unblocked User {target}",
}

type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// GetFeed 隐藏拉黑了 viewer 的用户产生的动态，其余按时间倒序返回
func (s *FeedService) GetFeed(ctx context.Context, viewerID uint64) ([]FeedItem, error) {
	blockers, err := (&sqldb.BlockRepository{DB: s.db}).BlockersOf(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list blockers: %w", err)
	}

	activities, err := (&sqldb.ActivityRepository{DB: s.db}).ListExcludingActors(ctx, blockers)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	items := make([]FeedItem, 0, len(activities))
	for i := range activities {
		items = append(items, FeedItem{
			ID:        activities[i].ID,
			Timestamp: activities[i].CreatedAt,
			Message:   RenderActivity(&activities[i]),
		})
	}
	return items, nil
}

// RenderActivity 按动词渲染消息，未知动词使用通用格式
func RenderActivity(a *model.Activity) string {
	tmpl, ok := feedTemplates[a.Verb]
	if !ok {
		return "Activity: " + a.Verb
	}
	target := "unknown"
	if a.TargetUserID != nil {
		target = strconv.FormatUint(*a.TargetUserID, 10)
	}
	return strings.NewReplacer(
		"{actor}", strconv.FormatUint(a.ActorID, 10),
		"{target}", target,
	).Replace(tmpl)
}
