package ratelimit

import (
	"MediVerify/internal/core/ports"
	"context"
	"sync"
	"time"
)

// SlidingWindow is an in-process limiter: at most maxReqs hits per key
// within window. It is used when no Redis is configured and for the
// per-IP HTTP limit.
type SlidingWindow struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	window   time.Duration
	maxReqs  int
	now      func() time.Time
}

var _ ports.RequestThrottle = (*SlidingWindow)(nil)

// NewSlidingWindow creates a limiter. Call Run to prune idle keys.
func NewSlidingWindow(window time.Duration, maxReqs int) *SlidingWindow {
	return &SlidingWindow{
		requests: make(map[string][]time.Time),
		window:   window,
		maxReqs:  maxReqs,
		now:      time.Now,
	}
}

// Allow records a hit for key unless the window is already full.
func (rl *SlidingWindow) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	filtered := rl.prune(rl.requests[key], now.Add(-rl.window))
	if len(filtered) >= rl.maxReqs {
		rl.requests[key] = filtered
		return false, nil
	}
	rl.requests[key] = append(filtered, now)
	return true, nil
}

func (rl *SlidingWindow) prune(reqs []time.Time, cutoff time.Time) []time.Time {
	filtered := reqs[:0]
	for _, t := range reqs {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Run drops expired keys every interval until ctx is cancelled.
func (rl *SlidingWindow) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *SlidingWindow) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for key, reqs := range rl.requests {
		filtered := rl.prune(reqs, cutoff)
		if len(filtered) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = filtered
		}
	}
}
