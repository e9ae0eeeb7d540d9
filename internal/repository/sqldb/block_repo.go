package sqldb

import (
	"context"
	"errors"

	"Inkle_Social/internal/model"

	"gorm.io/gorm"
)

type BlockRepository struct {
	DB *gorm.DB
}

// Find 不存在时返回 (nil, nil)
func (r *BlockRepository) Find(ctx context.Context, blockerID, blockedID uint64) (*model.Block, error) {
	var b model.Block
	err := r.DB.WithContext(ctx).
		Where("blocker_id = ? AND blocked_user_id = ?", blockerID, blockedID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BlockRepository) Exists(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.Block{}).
		Where("blocker_id = ? AND blocked_user_id = ?", blockerID, blockedID).
		Count(&n).Error
	return n > 0, err
}

func (r *BlockRepository) Create(ctx context.Context, blockerID, blockedID uint64) (*model.Block, error) {
	b := &model.Block{BlockerID: blockerID, BlockedUserID: blockedID}
	if err := r.DB.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BlockRepository) Delete(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("blocker_id = ? AND blocked_user_id = ?", blockerID, blockedID).
		Delete(&model.Block{})
	return res.RowsAffected > 0, res.Error
}

// BlockersOf 拉黑了 userID 的用户 ID 列表
func (r *BlockRepository) BlockersOf(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&model.Block{}).
		Where("blocked_user_id = ?", userID).
		Pluck("blocker_id", &ids).Error
	return ids, err
}
