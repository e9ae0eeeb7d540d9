package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/service"
)

type BlockHandler struct {
	svc *service.BlockService
	log *slog.Logger
}

func NewBlockHandler(svc *service.BlockService, log *slog.Logger) *BlockHandler {
	return &BlockHandler{svc: svc, log: log}
}

// Block 拉黑接口
func (h *BlockHandler) Block(c *gin.Context) {
	target, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Block(c.Request.Context(), userIDFromCtx(c), target); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusCreated, fmt.Sprintf("User %d blocked.", target))
}

// Unblock 取消拉黑接口
func (h *BlockHandler) Unblock(c *gin.Context) {
	target, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Unblock(c.Request.Context(), userIDFromCtx(c), target); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusOK, fmt.Sprintf("User %d unblocked.", target))
}
