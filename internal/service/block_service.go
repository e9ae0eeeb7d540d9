package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

type BlockService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewBlockService(db *gorm.DB, activity *ActivityService) *BlockService {
	return &BlockService{db: db, activity: activity}
}

// Block 拉黑用户；被拉黑者对拉黑者的关注会被解除，拉黑者自己的关注保留
func (s *BlockService) Block(ctx context.Context, actorID, targetID uint64) error {
	if actorID == targetID {
		return pkg.InvalidOperation("You cannot block yourself.")
	}
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		users := &sqldb.UserRepository{DB: tx}
		blocks := &sqldb.BlockRepository{DB: tx}

		target, err := users.FindByID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		if target == nil {
			return nil, pkg.NotFound("User not found.")
		}

		existing, err := blocks.Find(ctx, actorID, targetID)
		if err != nil {
			return nil, fmt.Errorf("find block: %w", err)
		}
		if existing != nil {
			return nil, pkg.Conflict("User already blocked.")
		}

		if _, err = (&sqldb.FollowRepository{DB: tx}).Delete(ctx, targetID, actorID); err != nil {
			return nil, fmt.Errorf("remove reverse follow: %w", err)
		}
		if _, err = blocks.Create(ctx, actorID, targetID); err != nil {
			if sqldb.IsDuplicate(err) {
				return nil, pkg.Conflict("User already blocked.")
			}
			return nil, fmt.Errorf("create block: %w", err)
		}

		return s.activity.Record(ctx, tx, Entry{
			ActorID:      actorID,
			Verb:         model.VerbBlocked,
			ObjectType:   model.ObjectUser,
			ObjectID:     idPtr(targetID),
			TargetUserID: idPtr(targetID),
		})
	})
	return err
}

// Unblock 取消拉黑
func (s *BlockService) Unblock(ctx context.Context, actorID, targetID uint64) error {
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		deleted, err := (&sqldb.BlockRepository{DB: tx}).Delete(ctx, actorID, targetID)
		if err != nil {
			return nil, fmt.Errorf("delete block: %w", err)
		}
		if !deleted {
			return nil, pkg.InvalidOperation("User is not blocked.")
		}

		return s.activity.Record(ctx, tx, Entry{
			ActorID:      actorID,
			Verb:         model.VerbUnblocked,
			ObjectType:   model.ObjectUser,
			ObjectID:     idPtr(targetID),
			TargetUserID: idPtr(targetID),
		})
	})
	return err
}
