package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

type AdminService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewAdminService(db *gorm.DB, activity *ActivityService) *AdminService {
	return &AdminService{db: db, activity: activity}
}

// DeleteUser 删除用户及其帖子、关注关系和发出的点赞。
// 他人对其帖子的点赞与拉黑记录不会被清理。
func (s *AdminService) DeleteUser(ctx context.Context, requester *model.User, targetID uint64) error {
	if !requester.Role.AtLeast(model.RoleAdmin) {
		return pkg.Forbidden("Admin access required")
	}
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		users := &sqldb.UserRepository{DB: tx}

		target, err := users.FindByID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		if target == nil {
			return nil, pkg.NotFound("User not found.")
		}
		if target.Role == model.RoleOwner {
			return nil, pkg.Forbidden("Owners cannot be deleted.")
		}

		if _, err = (&sqldb.PostRepository{DB: tx}).DeleteByAuthor(ctx, targetID); err != nil {
			return nil, fmt.Errorf("delete posts: %w", err)
		}
		if _, err = (&sqldb.FollowRepository{DB: tx}).DeleteAllOf(ctx, targetID); err != nil {
			return nil, fmt.Errorf("delete follows: %w", err)
		}
		if _, err = (&sqldb.LikeRepository{DB: tx}).DeleteByUser(ctx, targetID); err != nil {
			return nil, fmt.Errorf("delete likes: %w", err)
		}
		if err = users.Delete(ctx, targetID); err != nil {
			return nil, fmt.Errorf("delete user: %w", err)
		}

		return s.activity.Record(ctx, tx, Entry{
			ActorID:    requester.ID,
			Verb:       model.VerbUserDeleted,
			ObjectType: model.ObjectUser,
			ObjectID:   idPtr(targetID),
		})
	})
	return err
}

// PromoteToAdmin 仅 owner 可操作；重复提升是幂等的，不记录动态
func (s *AdminService) PromoteToAdmin(ctx context.Context, requester *model.User, targetID uint64) error {
	if !requester.Role.AtLeast(model.RoleOwner) {
		return pkg.Forbidden("Owner access required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := &sqldb.UserRepository{DB: tx}

		target, err := users.FindByID(ctx, targetID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if target == nil {
			return pkg.NotFound("User not found.")
		}
		// owner 角色不可变更
		if target.Role == model.RoleOwner {
			return pkg.Forbidden("Owner role cannot be changed.")
		}
		return users.UpdateRole(ctx, targetID, model.RoleAdmin)
	})
}
