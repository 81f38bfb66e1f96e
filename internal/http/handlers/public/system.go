package public

import (
	"context"
	"time"

	"github.com/userdesk/internal/constants"
	handlershared "github.com/userdesk/internal/http/handlers/shared"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/models"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

var startedAt = time.Now()

// Health 健康检查，数据库不可用时返回 503
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	database := "connected"
	pingErr := models.Ping(ctx, h.DB)
	if pingErr != nil {
		database = "disconnected"
	}
	data := gin.H{
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      int64(time.Since(startedAt).Seconds()),
		"environment": h.Config.App.Environment,
		"database":    database,
	}

	if pingErr != nil {
		handlershared.RequestLog(c).Warnw("health_database_ping_failed", "error", pingErr)
		response.ErrorWithData(c, response.CodeServiceUnavailable, handlershared.T(c, "message.health_degraded"), data)
		return
	}
	response.Success(c, handlershared.T(c, "message.health_ok"), data)
}

// Root 接口入口信息
func (h *Handler) Root(c *gin.Context) {
	response.Success(c, handlershared.T(c, "message.api_root"), gin.H{
		"name":          h.Config.App.Name,
		"version":       constants.AppVersion,
		"documentation": "/api/v1",
		"healthCheck":   "/health",
		"endpoints": gin.H{
			"auth": []string{
				"POST /api/v1/auth/register",
				"POST /api/v1/auth/login",
				"GET /api/v1/auth/verify/:token",
				"POST /api/v1/auth/refresh",
			},
			"users": []string{
				"GET /api/v1/users",
				"PATCH /api/v1/users/block",
				"PATCH /api/v1/users/unblock",
				"DELETE /api/v1/users/delete",
				"DELETE /api/v1/users/delete-unverified",
				"GET /api/v1/users/stats",
			},
		},
	})
}

// NotFound 未匹配路由
func NotFound(c *gin.Context) {
	respondError(c, response.CodeNotFound, "error.route_not_found", nil)
}

// MethodNotAllowed 方法不允许
func MethodNotAllowed(c *gin.Context) {
	respondError(c, response.CodeMethodNotAllowed, "error.method_not_allowed", nil)
}
