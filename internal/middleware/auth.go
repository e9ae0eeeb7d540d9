package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
)

const (
	ContextUserIDKey = "user_id"
	ContextUserKey   = "user"
	ContextClaimsKey = "claims"
)

// Authenticator 由 service.UserService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *pkg.Claims, error)
}

func AuthMiddleware(auth Authenticator, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authorization header"})
			return
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			var e *pkg.Error
			if errors.As(err, &e) && e.Kind == pkg.KindUnauthorized {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": e.Msg})
				return
			}
			log.Error("authenticate failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}

		// 注入当前用户
		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireRole 角色不低于 min，须在 AuthMiddleware 之后使用
func RequireRole(min model.Role) gin.HandlerFunc {
	msg := "Admin access required"
	if min == model.RoleOwner {
		msg = "Owner access required"
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		if !user.Role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": msg})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if u, ok2 := v.(*model.User); ok2 {
			return u
		}
	}
	return nil
}

func CurrentClaims(c *gin.Context) *pkg.Claims {
	if v, ok := c.Get(ContextClaimsKey); ok {
		if cl, ok2 := v.(*pkg.Claims); ok2 {
			return cl
		}
	}
	return nil
}
