package sqldb

import (
	"context"
	"errors"

	"Inkle_Social/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	DB *gorm.DB
}

// Find 查询 follower -> following 的关注关系，不存在时返回 (nil, nil)
func (r *FollowRepository) Find(ctx context.Context, followerID, followingID uint64) (*model.Follow, error) {
	var rel model.Follow
	err := r.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// Create 依赖唯一索引 (follower_id, following_id) 兜底并发重复插入
func (r *FollowRepository) Create(ctx context.Context, followerID, followingID uint64) (*model.Follow, error) {
	rel := &model.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := r.DB.WithContext(ctx).Create(rel).Error; err != nil {
		return nil, err
	}
	return rel, nil
}

// Delete 删除关注关系，返回是否真的删除了数据
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	return res.RowsAffected > 0, res.Error
}

// DeleteAllOf 删除用户作为关注者或被关注者的全部关系
func (r *FollowRepository) DeleteAllOf(ctx context.Context, userID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("follower_id = ? OR following_id = ?", userID, userID).
		Delete(&model.Follow{})
	return res.RowsAffected, res.Error
}

// IsFollowing 判断是否关注
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
