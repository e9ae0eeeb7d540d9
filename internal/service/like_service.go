package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

type LikeService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewLikeService(db *gorm.DB, activity *ActivityService) *LikeService {
	return &LikeService{db: db, activity: activity}
}

// Like 点赞：不能给自己的帖子点赞，被作者拉黑后不能点赞
func (s *LikeService) Like(ctx context.Context, actorID, postID uint64) error {
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		likes := &sqldb.LikeRepository{DB: tx}

		post, err := (&sqldb.PostRepository{DB: tx}).FindByID(ctx, postID)
		if err != nil {
			return nil, fmt.Errorf("find post: %w", err)
		}
		if post == nil {
			return nil, pkg.NotFound("Post not found.")
		}
		if post.UserID == actorID {
			return nil, pkg.InvalidOperation("You can't like your own post.")
		}

		blocked, err := (&sqldb.BlockRepository{DB: tx}).Exists(ctx, post.UserID, actorID)
		if err != nil {
			return nil, fmt.Errorf("check block: %w", err)
		}
		if blocked {
			return nil, pkg.Forbidden("You are blocked by this user.")
		}

		existing, err := likes.Find(ctx, actorID, postID)
		if err != nil {
			return nil, fmt.Errorf("find like: %w", err)
		}
		if existing != nil {
			return nil, pkg.Conflict("Post already liked.")
		}
		if _, err = likes.Create(ctx, actorID, postID); err != nil {
			if sqldb.IsDuplicate(err) {
				return nil, pkg.Conflict("Post already liked.")
			}
			return nil, fmt.Errorf("create like: %w", err)
		}

		return s.activity.Record(ctx, tx, Entry{
			ActorID:      actorID,
			Verb:         model.VerbLiked,
			ObjectType:   model.ObjectPost,
			ObjectID:     idPtr(postID),
			TargetUserID: idPtr(post.UserID),
		})
	})
	return err
}

// Unlike 取消点赞，不记录被点赞的作者
func (s *LikeService) Unlike(ctx context.Context, actorID, postID uint64) error {
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		deleted, err := (&sqldb.LikeRepository{DB: tx}).Delete(ctx, actorID, postID)
		if err != nil {
			return nil, fmt.Errorf("delete like: %w", err)
		}
		if !deleted {
			return nil, pkg.InvalidOperation("You have not liked this post.")
		}

		return s.activity.Record(ctx, tx, Entry{
			ActorID:    actorID,
			Verb:       model.VerbUnliked,
			ObjectType: model.ObjectPost,
			ObjectID:   idPtr(postID),
		})
	})
	return err
}

// Count 帖子点赞数
func (s *LikeService) Count(ctx context.Context, postID uint64) (int64, error) {
	return (&sqldb.LikeRepository{DB: s.db}).CountByPost(ctx, postID)
}
