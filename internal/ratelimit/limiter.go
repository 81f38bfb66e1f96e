package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/userdesk/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	defaultWindow      = 60 * time.Second
	defaultMaxRequests = 50
)

// Rule 固定窗口限流规则
type Rule struct {
	Window      time.Duration
	MaxRequests int
}

// RuleFromConfig 从配置构建限流规则，非法值回退默认值
func RuleFromConfig(cfg config.AuthRateLimitConfig) Rule {
	rule := Rule{
		Window:      time.Duration(cfg.WindowSeconds) * time.Second,
		MaxRequests: cfg.MaxRequests,
	}
	if rule.Window <= 0 {
		rule.Window = defaultWindow
	}
	if rule.MaxRequests <= 0 {
		rule.MaxRequests = defaultMaxRequests
	}
	return rule
}

// Decision 单次请求的限流结果
type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	ResetAt time.Time
}

// RetryAfter 距离窗口重置的剩余时间，至少 1 秒
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait < time.Second {
		return time.Second
	}
	return wait
}

// Remaining 当前窗口剩余可用次数
func (d Decision) Remaining() int {
	if d.Count >= d.Limit {
		return 0
	}
	return d.Limit - d.Count
}

// Limiter 按 key 计数的限流器
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// New 按配置选择存储后端，redis 不可用时回退内存
func New(cfg config.AuthRateLimitConfig, client *redis.Client, prefix string) Limiter {
	rule := RuleFromConfig(cfg)
	if strings.EqualFold(strings.TrimSpace(cfg.Store), StoreRedis) && client != nil {
		return NewRedisLimiter(client, prefix, rule)
	}
	return NewMemoryLimiter(rule)
}
