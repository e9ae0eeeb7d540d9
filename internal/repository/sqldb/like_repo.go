package sqldb

import (
	"context"
	"errors"

	"Inkle_Social/internal/model"

	"gorm.io/gorm"
)

type LikeRepository struct {
	DB *gorm.DB
}

// Find 不存在时返回 (nil, nil)
func (r *LikeRepository) Find(ctx context.Context, userID, postID uint64) (*model.Like, error) {
	var like model.Like
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Create 唯一(user_id, post_id) 兜底
func (r *LikeRepository) Create(ctx context.Context, userID, postID uint64) (*model.Like, error) {
	like := &model.Like{UserID: userID, PostID: postID}
	if err := r.DB.WithContext(ctx).Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, postID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	return res.RowsAffected > 0, res.Error
}

// DeleteByUser 删除用户发出的全部点赞（不含他人对其帖子的点赞）
func (r *LikeRepository) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
