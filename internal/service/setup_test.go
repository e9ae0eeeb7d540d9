package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Inkle_Social/internal/metrics"
	"Inkle_Social/internal/model"
	"Inkle_Social/internal/repository/sqldb"
)

type testEnv struct {
	db       *gorm.DB
	metrics  *metrics.Metrics
	activity *ActivityService
	follows  *FollowService
	blocks   *BlockService
	likes    *LikeService
	posts    *PostService
	feed     *FeedService
	admin    *AdminService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqldb.Open("sqlite://:memory:", sqldb.Options{})
	require.NoError(t, err)
	require.NoError(t, sqldb.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestEnv(t *testing.T, outbox bool) *testEnv {
	t.Helper()
	db := newTestDB(t)
	m := metrics.New()
	activity := NewActivityService(outbox, m)
	return &testEnv{
		db:       db,
		metrics:  m,
		activity: activity,
		follows:  NewFollowService(db, activity),
		blocks:   NewBlockService(db, activity),
		likes:    NewLikeService(db, activity),
		posts:    NewPostService(db, activity),
		feed:     NewFeedService(db),
		admin:    NewAdminService(db, activity),
	}
}

func (e *testEnv) mkUser(t *testing.T, name string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", Password: "x", Role: role, IsActive: true}
	require.NoError(t, (&sqldb.UserRepository{DB: e.db}).Create(context.Background(), u))
	return u
}

func (e *testEnv) mkPost(t *testing.T, author *model.User, content string) *model.Post {
	t.Helper()
	p, err := e.posts.CreatePost(context.Background(), author, content)
	require.NoError(t, err)
	return p
}

func (e *testEnv) count(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func (e *testEnv) activities(t *testing.T) []model.Activity {
	t.Helper()
	var out []model.Activity
	require.NoError(t, e.db.Order("id ASC").Find(&out).Error)
	return out
}
