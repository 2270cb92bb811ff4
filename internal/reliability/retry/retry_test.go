package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) *Config {
	return &Config{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2,
	}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(3), nil, "connect", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("refused")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	refused := errors.New("refused")
	calls := 0
	_, err := Do(context.Background(), fastConfig(2), nil, "connect", func(ctx context.Context) (int, error) {
		calls++
		return 0, refused
	})

	require.ErrorIs(t, err, refused)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "'connect' failed after 2 attempts")
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, fastConfig(5), nil, "connect", func(ctx context.Context) (int, error) {
		calls++
		return 0, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestCalculateBackoffCaps(t *testing.T) {
	cfg := StartupConfig(10)
	assert.Equal(t, 500*time.Millisecond, calculateBackoff(0, cfg))
	assert.Equal(t, time.Second, calculateBackoff(1, cfg))
	assert.Equal(t, 10*time.Second, calculateBackoff(8, cfg))
	assert.Equal(t, 1, StartupConfig(0).MaxAttempts)
}
