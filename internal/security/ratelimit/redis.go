package ratelimit

import (
	"context"
	"time"

	"github.com/aryan0dhankhar/claimledger/internal/reliability/circuitbreaker"
)

// Counter is the subset of the Redis client the limiter needs
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// RedisLimiter is a fixed window limiter shared by every server instance.
// When a breaker is set and open, Allow returns circuitbreaker.ErrOpen
// without touching Redis.
type RedisLimiter struct {
	counter Counter
	breaker *circuitbreaker.CircuitBreaker
	prefix  string
	maxReqs int
	window  time.Duration
}

func NewRedisLimiter(counter Counter, breaker *circuitbreaker.CircuitBreaker, prefix string, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		counter: counter,
		breaker: breaker,
		prefix:  prefix,
		maxReqs: maxRequests,
		window:  window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if key == "" || l.maxReqs <= 0 {
		return Decision{Allowed: true}, nil
	}

	redisKey := l.prefix + key
	var n int64
	incr := func() error {
		var err error
		n, err = l.counter.IncrWindow(ctx, redisKey, l.window)
		return err
	}

	var err error
	if l.breaker != nil {
		err = l.breaker.Execute(incr)
	} else {
		err = incr()
	}
	if err != nil {
		return Decision{}, err
	}
	if n <= int64(l.maxReqs) {
		return Decision{Allowed: true}, nil
	}

	ttl, err := l.counter.TTL(ctx, redisKey)
	if err != nil || ttl <= 0 {
		ttl = l.window
	}
	return Decision{RetryAfter: ttl}, nil
}
