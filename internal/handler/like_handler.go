package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/service"
)

type LikeHandler struct {
	svc *service.LikeService
	log *slog.Logger
}

func NewLikeHandler(svc *service.LikeService, log *slog.Logger) *LikeHandler {
	return &LikeHandler{svc: svc, log: log}
}

func (h *LikeHandler) Like(c *gin.Context) {
	pid, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Like(c.Request.Context(), userIDFromCtx(c), pid); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusCreated, fmt.Sprintf("You liked post %d", pid))
}

func (h *LikeHandler) Unlike(c *gin.Context) {
	pid, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Unlike(c.Request.Context(), userIDFromCtx(c), pid); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusOK, fmt.Sprintf("You unliked post %d", pid))
}
