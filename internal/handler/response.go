package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/pkg"
)

var statusByKind = map[pkg.Kind]int{
	pkg.KindNotFound:         http.StatusNotFound,
	pkg.KindConflict:         http.StatusConflict,
	pkg.KindInvalidOperation: http.StatusBadRequest,
	pkg.KindForbidden:        http.StatusForbidden,
	pkg.KindUnauthorized:     http.StatusUnauthorized,
}

// writeError 业务错误按分类映射状态码，其余记日志并返回 500
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var e *pkg.Error
	if errors.As(err, &e) {
		if code, ok := statusByKind[e.Kind]; ok {
			c.JSON(code, gin.H{"detail": e.Msg})
			return
		}
	}
	log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

func message(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

// pathID 解析路径中的数字 id
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
