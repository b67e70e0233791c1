package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter paces outbound requests. Local pacing only: this package never
// retries a request, it just delays the next send.
type RateLimiter interface {
	Wait(ctx context.Context) error
	Allow() bool
	GetRemaining() int
}

// TokenBucket is a token-bucket limiter refilled at a fixed per-second rate.
type TokenBucket struct {
	capacity   int
	tokens     int
	refillRate int // tokens per second
	windowSize time.Duration
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket that starts full.
func NewTokenBucket(capacity, refillRate int, windowSize time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		windowSize: windowSize,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)

	tokensToAdd := int(elapsed.Seconds()) * tb.refillRate
	if tokensToAdd > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
		tb.lastRefill = now
	}
}

// Allow consumes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}

		tb.mu.Lock()
		tb.refill()
		waitTime := time.Duration(0)
		if tb.tokens == 0 && tb.refillRate > 0 {
			waitTime = time.Second / time.Duration(tb.refillRate)
		}
		tb.mu.Unlock()

		if waitTime <= 0 {
			waitTime = tb.windowSize
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// GetRemaining returns the current token count.
func (tb *TokenBucket) GetRemaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	return tb.tokens
}

// SlidingWindow limits to N requests per rolling window.
type SlidingWindow struct {
	limit      int
	windowSize time.Duration
	requests   []time.Time
	mu         sync.Mutex
}

// NewSlidingWindow creates a rolling-window limiter.
func NewSlidingWindow(limit int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:      limit,
		windowSize: windowSize,
		requests:   make([]time.Time, 0),
	}
}

// Allow records the request if the window has room.
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-sw.windowSize)

	valid := sw.requests[:0]
	for _, req := range sw.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	sw.requests = valid

	if len(sw.requests) >= sw.limit {
		return false
	}

	sw.requests = append(sw.requests, now)
	return true
}

// Wait blocks until the window has room or ctx is done.
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for {
		if sw.Allow() {
			return nil
		}

		sw.mu.Lock()
		oldest := time.Now()
		if len(sw.requests) > 0 {
			oldest = sw.requests[0]
		}
		waitTime := sw.windowSize - time.Since(oldest)
		sw.mu.Unlock()

		if waitTime <= 0 {
			waitTime = 100 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// GetRemaining returns the free slots in the current window.
func (sw *SlidingWindow) GetRemaining() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := time.Now().Add(-sw.windowSize)
	valid := 0
	for _, req := range sw.requests {
		if req.After(cutoff) {
			valid++
		}
	}
	return max(0, sw.limit-valid)
}

// Manager holds per-endpoint limiters keyed by a short route name.
type Manager struct {
	limiters map[string]RateLimiter
	fallback RateLimiter
	mu       sync.RWMutex
}

// NewManager creates a manager preloaded with the USD-M futures limits:
// 300 orders / 10s per account, 2400 request weight / minute overall.
func NewManager() *Manager {
	m := &Manager{
		limiters: make(map[string]RateLimiter),
		fallback: NewSlidingWindow(2000, time.Minute),
	}

	m.limiters["fapi:order:post"] = NewTokenBucket(300, 30, 10*time.Second)
	m.limiters["fapi:order:delete"] = NewTokenBucket(300, 30, 10*time.Second)
	m.limiters["fapi:order:get"] = NewSlidingWindow(600, time.Minute)
	m.limiters["fapi:openOrders:get"] = NewSlidingWindow(120, time.Minute)
	m.limiters["fapi:account:get"] = NewSlidingWindow(300, time.Minute)
	m.limiters["fapi:ticker:get"] = NewSlidingWindow(600, time.Minute)

	return m
}

// GetLimiter returns the limiter for a route, falling back to the shared one.
func (m *Manager) GetLimiter(route string) RateLimiter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limiter, ok := m.limiters[route]; ok {
		return limiter
	}
	return m.fallback
}

// Wait blocks until the route's limiter admits the request.
func (m *Manager) Wait(ctx context.Context, route string) error {
	return m.GetLimiter(route).Wait(ctx)
}

// Allow reports whether the route's limiter admits the request right now.
func (m *Manager) Allow(route string) bool {
	return m.GetLimiter(route).Allow()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
