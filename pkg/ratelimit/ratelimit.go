package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter 速率限制器接口
type RateLimiter interface {
	Wait(ctx context.Context) error
	Allow() bool
	GetRemaining() int
}

// SlidingWindow 滑动窗口速率限制器
type SlidingWindow struct {
	limit      int           // 窗口内允许的请求数
	windowSize time.Duration // 窗口大小
	requests   []time.Time   // 窗口内的请求时间戳（按时间升序）
	mu         sync.Mutex
	now        func() time.Time
}

// NewSlidingWindow 创建新的滑动窗口速率限制器
func NewSlidingWindow(limit int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:      limit,
		windowSize: windowSize,
		requests:   make([]time.Time, 0, limit),
		now:        time.Now,
	}
}

// evict 移除窗口外的请求，调用方持锁
func (sw *SlidingWindow) evict(now time.Time) {
	cutoff := now.Add(-sw.windowSize)
	i := 0
	for i < len(sw.requests) && !sw.requests[i].After(cutoff) {
		i++
	}
	if i > 0 {
		sw.requests = append(sw.requests[:0], sw.requests[i:]...)
	}
}

// Allow 检查是否允许请求，允许时占用一个名额
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	sw.evict(now)
	if len(sw.requests) >= sw.limit {
		return false
	}
	sw.requests = append(sw.requests, now)
	return true
}

// Wait 等待直到允许请求
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for {
		if sw.Allow() {
			return nil
		}

		sw.mu.Lock()
		waitTime := 100 * time.Millisecond
		if len(sw.requests) > 0 {
			if d := sw.requests[0].Add(sw.windowSize).Sub(sw.now()); d > 0 {
				waitTime = d
			}
		}
		sw.mu.Unlock()

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// GetRemaining 获取剩余请求数
func (sw *SlidingWindow) GetRemaining() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.evict(sw.now())
	if n := sw.limit - len(sw.requests); n > 0 {
		return n
	}
	return 0
}

// 接口分组，每组一个独立的限流器
const (
	GroupSandbox    = "sandbox"
	GroupOrders     = "orders"
	GroupPortfolio  = "portfolio"
	GroupMarket     = "market"
	GroupOperations = "operations"
	GroupUser       = "user"
	GroupGeneral    = "general"
)

// Manager 按接口分组的速率限制管理器
type Manager struct {
	limiters map[string]RateLimiter
	mu       sync.RWMutex
}

// NewManager 创建带默认分组限额的管理器
func NewManager() *Manager {
	m := &Manager{limiters: make(map[string]RateLimiter)}

	// 每分钟限额
	m.limiters[GroupSandbox] = NewSlidingWindow(120, time.Minute)
	m.limiters[GroupOrders] = NewSlidingWindow(100, time.Minute)
	m.limiters[GroupPortfolio] = NewSlidingWindow(120, time.Minute)
	m.limiters[GroupMarket] = NewSlidingWindow(240, time.Minute)
	m.limiters[GroupOperations] = NewSlidingWindow(120, time.Minute)
	m.limiters[GroupUser] = NewSlidingWindow(120, time.Minute)
	m.limiters[GroupGeneral] = NewSlidingWindow(500, time.Minute)
	return m
}

// Set 替换某个分组的限流器
func (m *Manager) Set(group string, limiter RateLimiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[group] = limiter
}

// GetLimiter 获取分组限流器，未知分组使用 general
func (m *Manager) GetLimiter(group string) RateLimiter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limiter, ok := m.limiters[group]; ok {
		return limiter
	}
	return m.limiters[GroupGeneral]
}

// Wait 等待直到分组允许请求
func (m *Manager) Wait(ctx context.Context, group string) error {
	return m.GetLimiter(group).Wait(ctx)
}

// Allow 检查分组是否允许请求
func (m *Manager) Allow(group string) bool {
	return m.GetLimiter(group).Allow()
}

// GetRemaining 获取分组剩余请求数
func (m *Manager) GetRemaining(group string) int {
	return m.GetLimiter(group).GetRemaining()
}
