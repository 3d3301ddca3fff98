package service

import (
	"context"
	"sync"
	"time"

	"bookinglink/core/cache"
)

// RateLimiter bounds booking attempts per client within a sliding window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// memoryLimiter is the single-instance default: per-key hit timestamps,
// pruned on every check. Counting is per process; deployments with more than
// one instance should use the Redis-backed limiter instead.
type memoryLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) RateLimiter {
	return &memoryLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *memoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.hits[key] = kept
		return false, nil
	}

	l.hits[key] = append(kept, now)
	return true, nil
}

// redisLimiter shares one window across instances through Redis.
type redisLimiter struct {
	cache  cache.Cache
	limit  int
	window time.Duration
}

func NewRedisLimiter(c cache.Cache, limit int, window time.Duration) RateLimiter {
	return &redisLimiter{cache: c, limit: limit, window: window}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.cache.AllowInWindow(ctx, key, l.limit, l.window)
}
