package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"Inkle_Social/internal/metrics"
	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

// Entry 一条待记录的动态
type Entry struct {
	ActorID      uint64
	Verb         string
	ObjectType   string
	ObjectID     *uint64
	TargetUserID *uint64
}

// ActivityService 动态记录器，只追加不修改
type ActivityService struct {
	outbox  bool
	metrics *metrics.Metrics
}

// NewActivityService outbox=true 时同一事务内写入投递表
func NewActivityService(outbox bool, m *metrics.Metrics) *ActivityService {
	return &ActivityService{outbox: outbox, metrics: m}
}

// Record 在 tx 内追加一条动态，返回带 id 和时间戳的记录
func (s *ActivityService) Record(ctx context.Context, tx *gorm.DB, e Entry) (*model.Activity, error) {
	if e.ActorID == 0 || e.Verb == "" || e.ObjectType == "" {
		return nil, pkg.InvalidOperation("activity requires actor, verb and object type")
	}
	a := &model.Activity{
		ActorID:      e.ActorID,
		Verb:         e.Verb,
		ObjectType:   e.ObjectType,
		ObjectID:     e.ObjectID,
		TargetUserID: e.TargetUserID,
	}
	if err := (&sqldb.ActivityRepository{DB: tx}).Append(ctx, a); err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}
	if s.outbox {
		if err := (&sqldb.OutboxRepository{DB: tx}).InsertOutbox(ctx, a); err != nil {
			return nil, fmt.Errorf("insert outbox: %w", err)
		}
	}
	return a, nil
}

// Transact 校验 → 写关系 → 记录动态 → 提交，fn 返回的任何错误都会回滚整个事务
func (s *ActivityService) Transact(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) (*model.Activity, error)) (*model.Activity, error) {
	var recorded *model.Activity
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := fn(tx)
		if err != nil {
			return err
		}
		recorded = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	if recorded != nil {
		s.metrics.ObserveActivity(recorded.Verb)
	}
	return recorded, nil
}

func idPtr(id uint64) *uint64 { return &id }
