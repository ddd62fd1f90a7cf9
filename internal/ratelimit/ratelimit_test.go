package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Unlimited(t *testing.T) {
	l := New(0)

	assert.True(t, l.Unlimited())
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow())
	}
}

func TestNew_BurstThenBlocks(t *testing.T) {
	l := New(60) // 1 per second, burst 6

	for i := 0; i < 6; i++ {
		require.True(t, l.Allow(), "burst token %d", i)
	}
	assert.False(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx))
}
