package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/service"
)

type FeedHandler struct {
	svc *service.FeedService
	log *slog.Logger
}

func NewFeedHandler(svc *service.FeedService, log *slog.Logger) *FeedHandler {
	return &FeedHandler{svc: svc, log: log}
}

// Feed 当前用户的动态流
func (h *FeedHandler) Feed(c *gin.Context) {
	items, err := h.svc.GetFeed(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
