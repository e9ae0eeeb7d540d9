package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/middleware"
	"Inkle_Social/internal/service"
)

type FollowHandler struct {
	svc *service.FollowService
	log *slog.Logger
}

func NewFollowHandler(svc *service.FollowService, log *slog.Logger) *FollowHandler {
	return &FollowHandler{svc: svc, log: log}
}

// Follow 关注接口
func (h *FollowHandler) Follow(c *gin.Context) {
	target, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Follow(c.Request.Context(), userIDFromCtx(c), target); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusCreated, fmt.Sprintf("You are now following user %d", target))
}

// Unfollow 取关接口
func (h *FollowHandler) Unfollow(c *gin.Context) {
	target, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Unfollow(c.Request.Context(), userIDFromCtx(c), target); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusOK, fmt.Sprintf("You unfollowed user %d", target))
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
