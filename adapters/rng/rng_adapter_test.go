package rng

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededStreamIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter()

	r1, err := a.SeededStream(ctx, "estimate", 42)
	require.NoError(t, err)
	r2, err := a.SeededStream(ctx, "estimate", 42)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.Equal(t, r1.Int63(), r2.Int63())
	}
}

func TestStreamSeparatesKeys(t *testing.T) {
	assert.Equal(t, DeriveSeed(7, "run", "convergence", "1"), DeriveSeed(7, "run", "convergence", "1"))
	assert.NotEqual(t, DeriveSeed(7, "run", "convergence", "1"), DeriveSeed(7, "run", "convergence", "2"))
	assert.NotEqual(t, DeriveSeed(7, "run", "convergence", "1"), DeriveSeed(8, "run", "convergence", "1"))
	// joined parts must not collide when the boundary moves
	assert.NotEqual(t, DeriveSeed(7, "ab", "c"), DeriveSeed(7, "a", "bc"))
	assert.GreaterOrEqual(t, DeriveSeed(7, "x"), int64(0))
}

func TestResolveSeed(t *testing.T) {
	assert.Equal(t, int64(99), ResolveSeed(99))
	assert.NotZero(t, ResolveSeed(0))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAdapter().SeededStream(ctx, "estimate", 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = NewAdapter().Stream(ctx, "", "convergence", "0", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
