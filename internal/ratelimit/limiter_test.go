package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahedem/subhunt/internal/ratelimit"
)

func TestWait_FirstCallImmediate(t *testing.T) {
	l := ratelimit.New(time.Second)

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWait_SpacesSubsequentCalls(t *testing.T) {
	interval := 50 * time.Millisecond
	l := ratelimit.New(interval)

	require.NoError(t, l.Wait(context.Background()))
	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	elapsed := time.Since(start)

	// Jitter is ±20%, so the second call waits at least 80% of the interval.
	assert.GreaterOrEqual(t, elapsed, time.Duration(float64(interval)*0.7))
}

func TestWait_ContextCancelled(t *testing.T) {
	l := ratelimit.New(time.Hour)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
}
