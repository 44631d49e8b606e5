package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Lumina_AI/backend/go/internal/config"
	"Lumina_AI/backend/go/pkg/ratelimiter"
)

// SetupRouter 注册所有路由并返回 gin 引擎。
func SetupRouter(h *Handler, cfg *config.AppConfig) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online", "version": cfg.App.Version})
	})

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	protected := v1.Group("")
	protected.Use(AuthMiddleware(cfg.Auth.JwtSecret))
	{
		protected.GET("/users/me", h.Me)

		chats := protected.Group("/chats")
		{
			chats.POST("", h.CreateChat)
			chats.GET("", h.ListChats)
			chats.DELETE("/:id", h.DeleteChat)
			chats.PATCH("/:id", h.RenameChat)
			chats.GET("/:id/messages", h.ChatHistory)
		}

		chat := protected.Group("/chat")
		if cfg.Middleware.RateLimiter.Enabled {
			limiter := ratelimiter.NewTokenBucket(
				cfg.Middleware.RateLimiter.Rate,
				cfg.Middleware.RateLimiter.Capacity,
			)
			chat.Use(RateLimitMiddleware(limiter))
		}
		chat.POST("", h.Chat)

		goals := protected.Group("/goals")
		{
			goals.POST("", h.CreateGoal)
			goals.GET("", h.ListGoals)
			goals.PATCH("/:id/subtasks/:index", h.UpdateSubtask)
			goals.DELETE("/:id", h.DeleteGoal)
		}
	}

	return r
}
