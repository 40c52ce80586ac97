package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsUpToCapacity(t *testing.T) {
	rl := newRateLimiter(5)
	defer rl.Close()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.tryAcquire(), "token %d should be available", i)
	}
	assert.False(t, rl.tryAcquire(), "bucket should be empty after capacity draws")
}

func TestRateLimiterWaitReturnsImmediatelyWithTokens(t *testing.T) {
	rl := newRateLimiter(10)
	defer rl.Close()

	start := time.Now()
	require.NoError(t, rl.wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRateLimiterWaitHonorsContext(t *testing.T) {
	rl := newRateLimiter(1)
	defer rl.Close()
	require.True(t, rl.tryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiterDefaultsOnBadInput(t *testing.T) {
	rl := newRateLimiter(0)
	defer rl.Close()
	assert.True(t, rl.tryAcquire())
}
