package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter 滑动窗口限流，按 key（通常是客户端 IP）计数
type RateLimiter struct {
	max    int
	window time.Duration

	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
}

// NewRateLimiter 创建限流器，每个 key 在 window 内最多 max 次
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:    max,
		window: window,
		hits:   make(map[string][]time.Time),
	}
}

// Allow 记录一次访问并返回是否放行
func (l *RateLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	// 每个窗口周期清理一次过期 key
	if now.Sub(l.lastSweep) > l.window {
		for k, ts := range l.hits {
			if kept := prune(ts, cutoff); len(kept) == 0 {
				delete(l.hits, k)
			} else {
				l.hits[k] = kept
			}
		}
		l.lastSweep = now
	}

	ts := prune(l.hits[key], cutoff)
	if len(ts) >= l.max {
		l.hits[key] = ts
		return false
	}
	l.hits[key] = append(ts, now)
	return true
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Middleware 超过限制时返回 429
func (l *RateLimiter) Middleware(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP(), time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": message,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRateLimit 登录、注册接口限流中间件
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	return NewRateLimiter(maxAttempts, window).Middleware("登录尝试过于频繁，请稍后再试")
}
