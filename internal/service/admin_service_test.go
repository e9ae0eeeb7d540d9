package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

func TestDeleteUser_Cascade(t *testing.T) {
	e := newTestEnv(t, false)
	ctx := context.Background()
	admin := e.mkUser(t, "admin", model.RoleAdmin)
	victim := e.mkUser(t, "victim", model.RoleUser)
	other := e.mkUser(t, "other", model.RoleUser)

	vp := e.mkPost(t, victim, "victim post")
	op := e.mkPost(t, other, "other post")
	require.NoError(t, e.follows.Follow(ctx, victim.ID, other.ID))
	require.NoError(t, e.follows.Follow(ctx, other.ID, victim.ID))
	require.NoError(t, e.likes.Like(ctx, victim.ID, op.ID))
	require.NoError(t, e.likes.Like(ctx, other.ID, vp.ID))
	require.NoError(t, e.blocks.Block(ctx, other.ID, victim.ID))

	require.NoError(t, e.admin.DeleteUser(ctx, admin, victim.ID))

	u, err := (&sqldb.UserRepository{DB: e.db}).FindByID(ctx, victim.ID)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, int64(0), e.count(t, &model.Post{}, "user_id = ?", victim.ID))
	assert.Equal(t, int64(0), e.count(t, &model.Follow{}, "follower_id = ? OR following_id = ?", victim.ID, victim.ID))
	assert.Equal(t, int64(0), e.count(t, &model.Like{}, "user_id = ?", victim.ID))

	// 他人对其帖子的点赞与拉黑记录保留
	assert.Equal(t, int64(1), e.count(t, &model.Like{}, "post_id = ?", vp.ID))
	assert.Equal(t, int64(1), e.count(t, &model.Block{}, "blocked_user_id = ?", victim.ID))

	acts := e.activities(t)
	last := acts[len(acts)-1]
	assert.Equal(t, model.VerbUserDeleted, last.Verb)
	assert.Equal(t, admin.ID, last.ActorID)
	require.NotNil(t, last.ObjectID)
	assert.Equal(t, victim.ID, *last.ObjectID)
}

func TestDeleteUser_OwnerProtected(t *testing.T) {
	e := newTestEnv(t, false)
	ctx := context.Background()
	owner := e.mkUser(t, "owner", model.RoleOwner)
	admin := e.mkUser(t, "admin", model.RoleAdmin)

	for _, requester := range []*model.User{admin, owner} {
		err := e.admin.DeleteUser(ctx, requester, owner.ID)
		assert.True(t, pkg.IsKind(err, pkg.KindForbidden))
		assert.EqualError(t, err, "Owners cannot be deleted.")
	}
	u, err := (&sqldb.UserRepository{DB: e.db}).FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestDeleteUser_Errors(t *testing.T) {
	e := newTestEnv(t, false)
	ctx := context.Background()
	admin := e.mkUser(t, "admin", model.RoleAdmin)
	user := e.mkUser(t, "user", model.RoleUser)

	assert.True(t, pkg.IsKind(e.admin.DeleteUser(ctx, admin, 999), pkg.KindNotFound))
	assert.True(t, pkg.IsKind(e.admin.DeleteUser(ctx, user, admin.ID), pkg.KindForbidden))
}

func TestPromoteToAdmin(t *testing.T) {
	e := newTestEnv(t, false)
	ctx := context.Background()
	owner := e.mkUser(t, "owner", model.RoleOwner)
	admin := e.mkUser(t, "admin", model.RoleAdmin)
	user := e.mkUser(t, "user", model.RoleUser)

	assert.True(t, pkg.IsKind(e.admin.PromoteToAdmin(ctx, admin, user.ID), pkg.KindForbidden))

	require.NoError(t, e.admin.PromoteToAdmin(ctx, owner, user.ID))
	require.NoError(t, e.admin.PromoteToAdmin(ctx, owner, user.ID))
	u, err := (&sqldb.UserRepository{DB: e.db}).FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	assert.True(t, pkg.IsKind(e.admin.PromoteToAdmin(ctx, owner, owner.ID), pkg.KindForbidden))
	assert.True(t, pkg.IsKind(e.admin.PromoteToAdmin(ctx, owner, 999), pkg.KindNotFound))
	assert.Empty(t, e.activities(t))
}
