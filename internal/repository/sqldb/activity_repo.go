package sqldb

import (
	"context"
	"encoding/json"
	"time"

	"Inkle_Social/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

// Append 追加一条动态，回填 id 与 created_at
func (r *ActivityRepository) Append(ctx context.Context, a *model.Activity) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// ListExcludingActors 按时间倒序返回动态，跳过 excluded 中的发起者
func (r *ActivityRepository) ListExcludingActors(ctx context.Context, excluded []uint64) ([]model.Activity, error) {
	q := r.DB.WithContext(ctx).Model(&model.Activity{})
	// NOT IN 空集合在部分方言下会生成 NOT IN (NULL)，需要跳过
	if len(excluded) > 0 {
		q = q.Where("actor_id NOT IN ?", excluded)
	}
	var list []model.Activity
	err := q.Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, err
}

// InsertOutbox 与动态写入同一事务
func (r *OutboxRepository) InsertOutbox(ctx context.Context, a *model.Activity) error {
	payload, err := json.Marshal(map[string]any{
		"event_time":     a.CreatedAt.UTC().Format(time.RFC3339Nano),
		"activity_id":    a.ID,
		"actor_id":       a.ActorID,
		"verb":           a.Verb,
		"object_type":    a.ObjectType,
		"object_id":      a.ObjectID,
		"target_user_id": a.TargetUserID,
	})
	if err != nil {
		return err
	}
	ob := &model.ActivityOutbox{
		ActivityID: a.ID,
		Verb:       a.Verb,
		ActorID:    a.ActorID,
		Payload:    string(payload),
		Status:     0,
	}
	return r.DB.WithContext(ctx).Create(ob).Error
}

// MaxOutboxRetry 超过后不再重投
const MaxOutboxRetry = 10

// List 待投递的 outbox 记录，失败且未超过重试次数的也会重新投递
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ActivityOutbox, error) {
	var list []model.ActivityOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0 OR (status = 2 AND retry < ?)", MaxOutboxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
