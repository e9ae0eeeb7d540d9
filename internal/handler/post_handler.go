package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/middleware"
	"Inkle_Social/internal/service"
)

type PostHandler struct {
	svc *service.PostService
	log *slog.Logger
}

func NewPostHandler(svc *service.PostService, log *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: log}
}

type createPostReq struct {
	Content string `json:"content"`
}

type postView struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  uint64    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePost 发帖，content 可放在 JSON body 或 query 参数中
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req createPostReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid post payload")
			return
		}
	}
	if req.Content == "" {
		req.Content = c.Query("content")
	}

	user := middleware.CurrentUser(c)
	post, err := h.svc.CreatePost(c.Request.Context(), user, req.Content)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.ID, "content": post.Content, "created_by": user.Name})
}

// ListPosts 帖子列表
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, postView{ID: p.ID, Content: p.Content, AuthorID: p.UserID, CreatedAt: p.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}

// DeletePost 删除帖子
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusOK, "Post deleted")
}
