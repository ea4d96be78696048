package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowRateLimiter throttles public submission endpoints by client
// address: up to limit requests per window, with every counter dropped
// when the window rolls over.
type FixedWindowRateLimiter struct {
	sync.Mutex
	counts map[string]int
	limit  int
	window time.Duration
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		counts: make(map[string]int),
		limit:  limit,
		window: window,
	}
	go rl.sweep()
	return rl
}

func (rl *FixedWindowRateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	for range ticker.C {
		rl.Lock()
		rl.counts = make(map[string]int)
		rl.Unlock()
	}
}

// Allow reports whether addr may proceed, and on refusal how long until
// the window resets.
func (rl *FixedWindowRateLimiter) Allow(addr string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	count := rl.counts[addr]
	if count >= rl.limit {
		return false, rl.window
	}
	if count == 0 {
		go rl.expire(addr)
	}
	rl.counts[addr]++
	return true, 0
}

func (rl *FixedWindowRateLimiter) expire(addr string) {
	time.Sleep(rl.window)
	rl.Lock()
	delete(rl.counts, addr)
	rl.Unlock()
}
