package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"Inkle_Social/internal/handler"
	"Inkle_Social/internal/metrics"
	"Inkle_Social/internal/middleware"
	"Inkle_Social/internal/model"
	"Inkle_Social/internal/service"
)

// Deps 路由依赖，由 main 或测试组装
type Deps struct {
	DB         *gorm.DB
	Users      *service.UserService
	Posts      *service.PostService
	Follows    *service.FollowService
	Blocks     *service.BlockService
	Likes      *service.LikeService
	Feed       *service.FeedService
	Admin      *service.AdminService
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	CORSOrigin string
}

func InitRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(d.CORSOrigin))
	r.Use(middleware.RequestLogger(log))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if d.DB != nil {
			if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	user := handler.NewUserHandler(d.Users, log)
	post := handler.NewPostHandler(d.Posts, log)
	follow := handler.NewFollowHandler(d.Follows, log)
	block := handler.NewBlockHandler(d.Blocks, log)
	like := handler.NewLikeHandler(d.Likes, log)
	feed := handler.NewFeedHandler(d.Feed, log)
	admin := handler.NewAdminHandler(d.Admin, log)

	auth := middleware.AuthMiddleware(d.Users, log)

	// 账号相关接口
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", user.Signup)
		authGroup.POST("/login", user.Login)
		if d.Users.CanLogout() {
			authGroup.POST("/logout", auth, user.Logout)
		}
	}

	r.GET("/feed", auth, feed.Feed)

	// 帖子相关接口
	postGroup := r.Group("/posts")
	postGroup.Use(auth)
	{
		postGroup.POST("", post.CreatePost)
		postGroup.GET("", post.ListPosts)
		postGroup.DELETE("/:id", post.DeletePost)
	}

	// 关注
	followGroup := r.Group("/follow")
	followGroup.Use(auth)
	{
		followGroup.POST("/:id", follow.Follow)
		followGroup.DELETE("/:id", follow.Unfollow)
	}

	// 拉黑
	blockGroup := r.Group("/block")
	blockGroup.Use(auth)
	{
		blockGroup.POST("/:id", block.Block)
		blockGroup.DELETE("/:id", block.Unblock)
	}

	// 点赞
	likeGroup := r.Group("/like")
	likeGroup.Use(auth)
	{
		likeGroup.POST("/:id", like.Like)
		likeGroup.DELETE("/:id", like.Unlike)
	}

	// 管理接口
	adminGroup := r.Group("/admin")
	adminGroup.Use(auth)
	{
		adminGroup.DELETE("/user/:id", middleware.RequireRole(model.RoleAdmin), admin.DeleteUser)
		adminGroup.POST("/promote/:id", middleware.RequireRole(model.RoleOwner), admin.Promote)
	}

	return r
}

func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
