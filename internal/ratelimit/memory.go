package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter 进程内固定窗口限流器
type MemoryLimiter struct {
	rule Rule
	now  func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	nextSweep time.Time
}

// NewMemoryLimiter 创建内存限流器
func NewMemoryLimiter(rule Rule) *MemoryLimiter {
	return &MemoryLimiter{
		rule:    rule,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// WithClock 替换时间源
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	if now != nil {
		l.now = now
	}
	return l
}

// Allow 记录一次请求并判断是否超限
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.rule.Window)}
		l.windows[key] = w
	}
	w.count++

	return Decision{
		Allowed: w.count <= l.rule.MaxRequests,
		Count:   w.count,
		Limit:   l.rule.MaxRequests,
		ResetAt: w.resetAt,
	}, nil
}

// Len 当前跟踪的 key 数量
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// sweepLocked 每个窗口周期最多清理一次过期 key
func (l *MemoryLimiter) sweepLocked(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
	l.nextSweep = now.Add(l.rule.Window)
}
