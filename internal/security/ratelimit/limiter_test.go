package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/claimledger/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/claimledger/internal/reliability/circuitbreaker"
)

func TestLimiterSlidingWindow(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	defer l.Stop()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	now = now.Add(10 * time.Second)
	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 50*time.Second, d.RetryAfter)

	d, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, d.Allowed, "keys are independent")

	now = now.Add(51 * time.Second)
	d, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, d.Allowed, "window should have slid past the first requests")
}

func TestLimiterEmptyKeyAlwaysAllowed(t *testing.T) {
	l := NewLimiter(0, time.Minute)
	defer l.Stop()

	d, err := l.Allow(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	l := NewRedisLimiter(client, nil, "ratelimit:login:", 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)
	assert.True(t, mr.Exists("ratelimit:login:10.0.0.1"))

	mr.FastForward(time.Minute)
	d, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisLimiterSurfacesErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	mr.SetError("ERR injected failure")
	l := NewRedisLimiter(client, circuitbreaker.New(2, 1, time.Minute), "rl:", 1, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err = l.Allow(ctx, "k")
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuitbreaker.ErrOpen)
	}

	_, err = l.Allow(ctx, "k")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen, "breaker should open after repeated failures")
}

func TestRedisLimiterRecoversKeyWithoutTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, mr.Set("rl:1.2.3.4", "10"))
	l := NewRedisLimiter(client, nil, "rl:", 3, time.Minute)
	ctx := context.Background()

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)
	assert.Equal(t, time.Minute, mr.TTL("rl:1.2.3.4"))

	mr.FastForward(time.Minute)
	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "stale counter must expire with the window")
}
