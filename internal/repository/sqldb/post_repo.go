package sqldb

import (
	"context"
	"errors"

	"Inkle_Social/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

// FindByID 不存在时返回 (nil, nil)
func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List 全部帖子，按 id 升序
func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

// MarkDeletedBy 记录删除者角色
func (r *PostRepository) MarkDeletedBy(ctx context.Context, id uint64, role model.Role) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Update("deleted_by", role.String()).Error
}

// Delete 硬删除
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&model.Post{}, id).Error
}

// DeleteByAuthor 删除某用户的全部帖子
func (r *PostRepository) DeleteByAuthor(ctx context.Context, userID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Post{})
	return res.RowsAffected, res.Error
}
