package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	n, err := c.IncrWindow(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.IncrWindow(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, err := c.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	mr.FastForward(time.Minute + time.Second)
	n, err = c.IncrWindow(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "window should restart after expiry")
}

func TestIncrWindowRepairsMissingTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, mr.Set("k", "5"))
	assert.Zero(t, mr.TTL("k"))

	ctx := context.Background()
	n, err := c.IncrWindow(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	// An existing TTL is left alone.
	mr.FastForward(20 * time.Second)
	_, err = c.IncrWindow(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, mr.TTL("k"))
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)
}
