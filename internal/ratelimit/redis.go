package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

var errUnexpectedScriptResult = errors.New("unexpected rate limit script result")

// RedisLimiter 基于 Redis INCR 的固定窗口限流器，多实例共享计数
type RedisLimiter struct {
	client *redis.Client
	prefix string
	rule   Rule
	now    func() time.Time
}

// NewRedisLimiter 创建 Redis 限流器
func NewRedisLimiter(client *redis.Client, prefix string, rule Rule) *RedisLimiter {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "ud"
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix + ":ratelimit",
		rule:   rule,
		now:    time.Now,
	}
}

// Allow 记录一次请求并判断是否超限
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	result, err := fixedWindowScript.Run(ctx, l.client, []string{l.buildKey(key)}, l.rule.Window.Milliseconds()).Result()
	if err != nil {
		return Decision{}, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return Decision{}, errUnexpectedScriptResult
	}
	count, ok := toInt64(values[0])
	if !ok {
		return Decision{}, errUnexpectedScriptResult
	}
	ttlMillis, _ := toInt64(values[1])
	if ttlMillis <= 0 {
		ttlMillis = l.rule.Window.Milliseconds()
	}

	return Decision{
		Allowed: count <= int64(l.rule.MaxRequests),
		Count:   int(count),
		Limit:   l.rule.MaxRequests,
		ResetAt: l.now().Add(time.Duration(ttlMillis) * time.Millisecond),
	}, nil
}

func (l *RedisLimiter) buildKey(key string) string {
	return fmt.Sprintf("%s:%s", l.prefix, key)
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
