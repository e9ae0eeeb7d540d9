package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/middleware"
	"Inkle_Social/internal/service"
)

type AdminHandler struct {
	svc *service.AdminService
	log *slog.Logger
}

func NewAdminHandler(svc *service.AdminService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// DeleteUser 删除用户
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusOK, fmt.Sprintf("User %d deleted.", id))
}

// Promote 提升为管理员
func (h *AdminHandler) Promote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.PromoteToAdmin(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	message(c, http.StatusOK, fmt.Sprintf("User %d is now an admin.", id))
}
