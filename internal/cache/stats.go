package cache

import (
	"context"
	"time"

	"github.com/userdesk/internal/repository"
)

const (
	userStatsKey      = "users:stats"
	userStatsCacheTTL = 30 * time.Second
)

// UserStatsCache 用户统计 Redis 缓存，Redis 未启用时读写均为空操作
type UserStatsCache struct {
	ttl time.Duration
}

// NewUserStatsCache 创建用户统计缓存
func NewUserStatsCache() *UserStatsCache {
	return &UserStatsCache{ttl: userStatsCacheTTL}
}

// GetUserStats 读取统计缓存
func (c *UserStatsCache) GetUserStats(ctx context.Context) (*repository.UserStats, bool, error) {
	var stats repository.UserStats
	hit, err := GetJSON(ctx, userStatsKey, &stats)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &stats, true, nil
}

// SetUserStats 写入统计缓存
func (c *UserStatsCache) SetUserStats(ctx context.Context, stats repository.UserStats) error {
	return SetJSON(ctx, userStatsKey, stats, c.ttl)
}

// InvalidateUserStats 删除统计缓存
func (c *UserStatsCache) InvalidateUserStats(ctx context.Context) error {
	return Del(ctx, userStatsKey)
}
