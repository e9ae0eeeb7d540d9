package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

type PostService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewPostService(db *gorm.DB, activity *ActivityService) *PostService {
	return &PostService{db: db, activity: activity}
}

// CreatePost 发帖，内容不能为空白
func (s *PostService) CreatePost(ctx context.Context, author *model.User, content string) (*model.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, pkg.InvalidOperation("Post content cannot be empty.")
	}

	post := &model.Post{UserID: author.ID, Content: content}
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		if err := (&sqldb.PostRepository{DB: tx}).Create(ctx, post); err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		return s.activity.Record(ctx, tx, Entry{
			ActorID:    author.ID,
			Verb:       model.VerbPostCreated,
			ObjectType: model.ObjectPost,
			ObjectID:   idPtr(post.ID),
		})
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts 全部帖子
func (s *PostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	return (&sqldb.PostRepository{DB: s.db}).List(ctx)
}

// DeletePost 作者本人或 admin/owner 可删除。
// 管理员删除他人帖子时先写入 deleted_by 再删除该行。
func (s *PostService) DeletePost(ctx context.Context, requester *model.User, postID uint64) error {
	_, err := s.activity.Transact(ctx, s.db, func(tx *gorm.DB) (*model.Activity, error) {
		posts := &sqldb.PostRepository{DB: tx}

		post, err := posts.FindByID(ctx, postID)
		if err != nil {
			return nil, fmt.Errorf("find post: %w", err)
		}
		if post == nil {
			return nil, pkg.NotFound("Post not found")
		}

		isAuthor := post.UserID == requester.ID
		privileged := requester.Role.AtLeast(model.RoleAdmin)
		if !isAuthor && !privileged {
			return nil, pkg.Forbidden("Not allowed to delete this post")
		}

		if !isAuthor {
			if err = posts.MarkDeletedBy(ctx, postID, requester.Role); err != nil {
				return nil, fmt.Errorf("mark deleted_by: %w", err)
			}
		}
		if err = posts.Delete(ctx, postID); err != nil {
			return nil, fmt.Errorf("delete post: %w", err)
		}

		return s.activity.Record(ctx, tx, Entry{
			ActorID:    requester.ID,
			Verb:       model.VerbPostDeleted,
			ObjectType: model.ObjectPost,
			ObjectID:   idPtr(postID),
		})
	})
	return err
}
