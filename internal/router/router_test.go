package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Inkle_Social/internal/metrics"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/pkg/logging"
	"Inkle_Social/internal/repository/sqldb"
	"Inkle_Social/internal/service"
)

const ownerEmail = "owner@example.com"

type memRevoker struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (m *memRevoker) Revoke(_ context.Context, jti string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[jti] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[jti], nil
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T, revoker service.TokenRevoker) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqldb.Open("sqlite://:memory:", sqldb.Options{})
	require.NoError(t, err)
	require.NoError(t, sqldb.AutoMigrate(db))

	tokens, err := pkg.NewTokenService("router-test-secret", time.Hour, "social-test")
	require.NoError(t, err)

	log := logging.Discard()
	m := metrics.New()
	activity := service.NewActivityService(false, m)
	r := InitRouter(Deps{
		DB:      db,
		Users:   service.NewUserService(db, tokens, service.UserServiceOptions{Revoker: revoker, OwnerEmail: ownerEmail, Logger: log}),
		Posts:   service.NewPostService(db, activity),
		Follows: service.NewFollowService(db, activity),
		Blocks:  service.NewBlockService(db, activity),
		Likes:   service.NewLikeService(db, activity),
		Feed:    service.NewFeedService(db),
		Admin:   service.NewAdminService(db, activity),
		Metrics: m,
		Logger:  log,
	})
	return &testServer{t: t, engine: r}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// signup 注册并登录，返回用户 id 和 token
func (s *testServer) signup(name string) (uint64, string) {
	s.t.Helper()
	email := name + "@example.com"
	if name == "owner" {
		email = ownerEmail
	}
	w := s.do(http.MethodPost, "/auth/signup", "", gin.H{"name": name, "email": email, "password": "secret"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var u struct {
		ID   uint64 `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &u))

	w = s.do(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": "secret"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &tok))
	require.Equal(s.t, "bearer", tok.TokenType)
	return u.ID, tok.AccessToken
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func feedMessages(t *testing.T, s *testServer, token string) []string {
	t.Helper()
	w := s.do(http.MethodGet, "/feed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []struct {
		ID        uint64    `json:"id"`
		Timestamp time.Time `json:"timestamp"`
		Message   string    `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Message)
	}
	return out
}

func TestAuth_Signup_Login(t *testing.T) {
	s := newTestServer(t, nil)
	s.signup("alice")

	w := s.do(http.MethodPost, "/auth/signup", "", gin.H{"name": "alice", "email": "alice@example.com", "password": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", detail(t, w))

	w = s.do(http.MethodPost, "/auth/signup", "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", detail(t, w))

	// 未配置黑名单时不暴露登出接口
	w = s.do(http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuth_BearerRequired(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/feed", "/posts"} {
		w := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := s.do(http.MethodGet, "/feed", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	s := newTestServer(t, &memRevoker{ids: map[string]bool{}})
	_, tok := s.signup("alice")

	w := s.do(http.MethodPost, "/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/feed", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPosts_CreateListDelete(t *testing.T) {
	s := newTestServer(t, nil)
	aliceID, alice := s.signup("alice")
	_, bob := s.signup("bob")

	w := s.do(http.MethodPost, "/posts", alice, gin.H{"content": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID        uint64 `json:"id"`
		Content   string `json:"content"`
		CreatedBy string `json:"created_by"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "hello", created.Content)
	assert.Equal(t, "alice", created.CreatedBy)

	w = s.do(http.MethodPost, "/posts?content=from+query", alice, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/posts", alice, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Post content cannot be empty.", detail(t, w))

	w = s.do(http.MethodGet, "/posts", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var posts []struct {
		ID       uint64 `json:"id"`
		Content  string `json:"content"`
		AuthorID uint64 `json:"author_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, aliceID, posts[0].AuthorID)
	assert.Equal(t, "from query", posts[1].Content)

	path := fmt.Sprintf("/posts/%d", created.ID)
	w = s.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post deleted")

	w = s.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/posts/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollow_StatusCodes(t *testing.T) {
	s := newTestServer(t, nil)
	aliceID, alice := s.signup("alice")
	bobID, _ := s.signup("bob")

	w := s.do(http.MethodPost, fmt.Sprintf("/follow/%d", bobID), alice, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("You are now following user %d", bobID))

	w = s.do(http.MethodPost, fmt.Sprintf("/follow/%d", bobID), alice, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/follow/%d", aliceID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot follow yourself.", detail(t, w))

	w = s.do(http.MethodPost, "/follow/999", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/follow/%d", bobID), alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, fmt.Sprintf("/follow/%d", bobID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScenario_BlockDoesNotPreventFollow(t *testing.T) {
	s := newTestServer(t, nil)
	aliceID, alice := s.signup("alice")
	bobID, bob := s.signup("bob")

	w := s.do(http.MethodPost, fmt.Sprintf("/block/%d", aliceID), bob, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("User %d blocked.", aliceID))

	w = s.do(http.MethodPost, fmt.Sprintf("/follow/%d", bobID), alice, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	// bob 的动态对 alice 不可见
	for _, msg := range feedMessages(t, s, alice) {
		assert.False(t, strings.HasPrefix(msg, fmt.Sprintf("User %d ", bobID)), msg)
	}

	w = s.do(http.MethodDelete, fmt.Sprintf("/block/%d", aliceID), bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, fmt.Sprintf("/block/%d", aliceID), bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScenario_LikeRendersGenerically(t *testing.T) {
	s := newTestServer(t, nil)
	_, alice := s.signup("alice")
	_, bob := s.signup("bob")

	w := s.do(http.MethodPost, "/posts", alice, gin.H{"content": "P"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))

	w = s.do(http.MethodPost, fmt.Sprintf("/like/%d", p.ID), bob, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("You liked post %d", p.ID))

	msgs := feedMessages(t, s, alice)
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Activity: LIKED", msgs[0])
	for _, m := range msgs {
		assert.NotContains(t, m, "liked")
	}
}

func TestScenario_UnlikeThenLikeAgain(t *testing.T) {
	s := newTestServer(t, nil)
	_, alice := s.signup("alice")
	_, bob := s.signup("bob")

	w := s.do(http.MethodPost, "/posts", alice, gin.H{"content": "P"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	path := fmt.Sprintf("/like/%d", p.ID)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, path, bob, nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, path, bob, nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, bob, nil).Code)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, path, bob, nil).Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, path, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/like/999", bob, nil).Code)
}

func TestLike_BlockedByAuthor(t *testing.T) {
	s := newTestServer(t, nil)
	aliceID, alice := s.signup("alice")
	_, bob := s.signup("bob")

	w := s.do(http.MethodPost, "/posts", bob, gin.H{"content": "P"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, fmt.Sprintf("/block/%d", aliceID), bob, nil).Code)
	w = s.do(http.MethodPost, fmt.Sprintf("/like/%d", p.ID), alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are blocked by this user.", detail(t, w))
}

func TestAdmin_Roles(t *testing.T) {
	s := newTestServer(t, nil)
	ownerID, owner := s.signup("owner")
	userID, user := s.signup("user")
	victimID, _ := s.signup("victim")

	// 普通用户无权访问
	w := s.do(http.MethodDelete, fmt.Sprintf("/admin/user/%d", victimID), user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPost, fmt.Sprintf("/admin/promote/%d", userID), user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/admin/promote/%d", userID), owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("User %d is now an admin.", userID))

	// 角色在每次请求时从库中读取，提升后立即生效
	w = s.do(http.MethodPost, fmt.Sprintf("/admin/promote/%d", victimID), user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/admin/user/%d", ownerID), user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Owners cannot be deleted.", detail(t, w))

	w = s.do(http.MethodDelete, fmt.Sprintf("/admin/user/%d", victimID), user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf("User %d deleted.", victimID))

	w = s.do(http.MethodDelete, fmt.Sprintf("/admin/user/%d", victimID), user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Contains(t, feedMessages(t, s, owner), "Activity: USER_DELETED")
}

func TestDeletedUserToken_Unauthorized(t *testing.T) {
	s := newTestServer(t, nil)
	_, owner := s.signup("owner")
	victimID, victim := s.signup("victim")

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, fmt.Sprintf("/admin/user/%d", victimID), owner, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/feed", victim, nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s.signup("alice")
	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "social_http_requests_total")
}
