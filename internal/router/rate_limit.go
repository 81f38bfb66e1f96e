package router

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/userdesk/internal/http/handlers/shared"
	"github.com/userdesk/internal/http/response"
	"github.com/userdesk/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitMiddleware 固定窗口频率限制中间件
// 限流器故障时放行请求，只记录告警
func RateLimitMiddleware(limiter ratelimit.Limiter, scope string, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if scope != "" {
			key = fmt.Sprintf("%s:%s", scope, key)
		}

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			handlershared.RequestLog(c).Warnw("rate_limit_unavailable",
				"key", key,
				"error", err,
			)
			c.Next()
			return
		}

		header := c.Writer.Header()
		header.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		header.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining()))
		header.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			wait := decision.RetryAfter(time.Now())
			header.Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			handlershared.RequestLog(c).Warnw("rate_limit_exceeded",
				"key", key,
				"count", decision.Count,
				"limit", decision.Limit,
			)
			handlershared.RespondError(c, response.CodeTooManyRequests, "error.rate_limited", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}
