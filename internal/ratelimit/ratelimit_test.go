package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitFirstCallIsImmediate(t *testing.T) {
	limiter := NewPolitenessLimiter(time.Second)

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitEnforcesDelay(t *testing.T) {
	delay := 50 * time.Millisecond
	limiter := NewPolitenessLimiter(delay)

	require.NoError(t, limiter.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), delay)
}

func TestWaitCancelledContext(t *testing.T) {
	limiter := NewPolitenessLimiter(10 * time.Second)
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetDelay(t *testing.T) {
	limiter := NewPolitenessLimiter(10 * time.Second)
	require.NoError(t, limiter.Wait(context.Background()))

	limiter.SetDelay(time.Millisecond)

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}
