package usecase

import (
	"sync"
	"time"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
)

const (
	defaultRateRequests = 10
	defaultRateWindow   = 60 * time.Second
)

// Decision 限流判定结果
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter 距离当前窗口重置的时长，仅在拒绝时有意义
	RetryAfter time.Duration
}

type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter 固定窗口限流，窗口在每次 Allow 时惰性滚动
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	limit   int
	window  time.Duration
	// lastPrune 每个窗口周期最多清理一次过期窗口
	lastPrune time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(c *conf.RateLimit) *RateLimiter {
	limit := defaultRateRequests
	window := defaultRateWindow
	if c != nil {
		if c.Requests > 0 {
			limit = int(c.Requests)
		}
		window = conf.Duration(c.Window, defaultRateWindow)
	}
	return &RateLimiter{
		windows: make(map[string]*rateWindow),
		limit:   limit,
		window:  window,
	}
}

// RateKey 限流维度：调用方 + 来源
func RateKey(identity, origin string) string {
	return identity + "|" + origin
}

// Allow 当前窗口内计数小于上限时放行并计数；被拒绝的请求不再累加
func (l *RateLimiter) Allow(key string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) >= l.window {
		l.prune(now)
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &rateWindow{start: now}
		l.windows[key] = w
	}

	if w.count >= l.limit {
		return Decision{
			Allowed:    false,
			RetryAfter: w.start.Add(l.window).Sub(now),
		}
	}
	w.count++
	return Decision{Allowed: true, Remaining: l.limit - w.count}
}

// Prune 删除已经结束的窗口，返回删除数量
func (l *RateLimiter) Prune(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prune(now)
}

func (l *RateLimiter) prune(now time.Time) int {
	removed := 0
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
			removed++
		}
	}
	l.lastPrune = now
	return removed
}

// Len 当前跟踪的窗口数量
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Limit 每个窗口的请求上限
func (l *RateLimiter) Limit() int {
	return l.limit
}
