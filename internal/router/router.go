package router

import (
	"strings"

	"github.com/userdesk/internal/config"
	adminhandlers "github.com/userdesk/internal/http/handlers/admin"
	publichandlers "github.com/userdesk/internal/http/handlers/public"
	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/provider"

	"github.com/gin-gonic/gin"
)

const authRateLimitScope = "auth"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// 初始化 Handler（按公开/管理分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	// 中间件
	r.Use(RecoveryMiddleware(log))
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, MetricsHandler())
	}

	r.GET("/", publicHandler.Root)
	r.GET("/health", publicHandler.Health)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 认证接口，注册与登录按 IP 限流
		auth := apiV1.Group("/auth")
		authLimit := RateLimitMiddleware(c.AuthRateLimiter, authRateLimitScope, KeyByIP)
		{
			auth.POST("/register", authLimit, publicHandler.Register)
			auth.POST("/login", authLimit, publicHandler.Login)
			auth.GET("/verify/:token", publicHandler.VerifyEmail)
			auth.POST("/refresh", publicHandler.RefreshToken)
		}

		// 用户管理接口（需鉴权）
		users := apiV1.Group("/users")
		users.Use(AuthMiddleware(c.AuthPipeline))
		{
			users.GET("", adminHandler.ListUsers)
			users.GET("/stats", adminHandler.UserStats)
		}

		// 写操作需要已激活账号
		mutations := apiV1.Group("/users")
		mutations.Use(AuthMiddleware(c.ActivePipeline))
		{
			mutations.PATCH("/block", adminHandler.BlockUsers)
			mutations.PATCH("/unblock", adminHandler.UnblockUsers)
			mutations.DELETE("/delete", adminHandler.DeleteUsers)
			mutations.DELETE("/delete-unverified", adminHandler.DeleteUnverifiedUsers)
		}
	}

	r.NoRoute(publichandlers.NotFound)
	r.NoMethod(publichandlers.MethodNotAllowed)

	return r
}
