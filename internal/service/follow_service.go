package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

type FollowService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewFollowService(db *gorm.DB, activity *ActivityService) *FollowService {
	return &FollowService{db: db, activity: activity}
}

// Follow 关注用户
func (s *FollowService) Follow(ctx context.Context, actorID, targetID uint64) error {
	if actorID == targetID {
		return pkg.InvalidOperation("You cannot follow yourself.")
	}
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		users := &sqldb.UserRepository{DB: tx}
		follows := &sqldb.FollowRepository{DB: tx}

		target, err := users.FindByID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		if target == nil {
			return nil, pkg.NotFound("User does not exist.")
		}

		existing, err := follows.Find(ctx, actorID, targetID)
		if err != nil {
			return nil, fmt.Errorf("find follow: %w", err)
		}
		if existing != nil {
			return nil, pkg.Conflict("Already following this user.")
		}
		if _, err = follows.Create(ctx, actorID, targetID); err != nil {
			// 并发的重复关注由唯一索引拦截
			if sqldb.IsDuplicate(err) {
				return nil, pkg.Conflict("Already following this user.")
			}
			return nil, fmt.Errorf("create follow: %w", err)
		}

		return s.activity.Record(ctx, tx, Entry{
			ActorID:      actorID,
			Verb:         model.VerbFollowed,
			ObjectType:   model.ObjectUser,
			ObjectID:     idPtr(targetID),
			TargetUserID: idPtr(targetID),
		})
	})
	return err
}

// Unfollow 取消关注
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID uint64) error {
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		deleted, err := (&sqldb.FollowRepository{DB: tx}).Delete(ctx, actorID, targetID)
		if err != nil {
			return nil, fmt.Errorf("delete follow: %w", err)
		}
		if !deleted {
			return nil, pkg.InvalidOperation("You are not following this user.")
		}

		return s.activity.Record(ctx, tx, Entry{
			ActorID:      actorID,
			Verb:         model.VerbUnfollowed,
			ObjectType:   model.ObjectUser,
			ObjectID:     idPtr(targetID),
			TargetUserID: idPtr(targetID),
		})
	})
	return err
}

// IsFollowing 判断是否关注
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	return (&sqldb.FollowRepository{DB: s.db}).IsFollowing(ctx, followerID, followingID)
}
