package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue[int](4)
	ctx := context.Background()
	require.NoError(t, q.SendBack(ctx, 1))
	require.NoError(t, q.SendBack(ctx, 2))
	require.NoError(t, q.SendBack(ctx, 3))

	first, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second)
}

func TestTrySendBackReturnsQueueFullAtCapacity(t *testing.T) {
	q := NewQueue[int](1)
	require.NoError(t, q.TrySendBack(1))
	err := q.TrySendBack(2)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 1, q.Len())
}

func TestSendBackRespectsContextCancellation(t *testing.T) {
	q := NewQueue[int](1)
	require.NoError(t, q.TrySendBack(1)) // fill the one slot

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := q.SendBack(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReceiveRespectsContextCancellation(t *testing.T) {
	q := NewQueue[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueLenAndCap(t *testing.T) {
	q := NewQueue[int](3)
	assert.Equal(t, 3, q.Cap())
	assert.Equal(t, 0, q.Len())
	require.NoError(t, q.TrySendBack(1))
	assert.Equal(t, 1, q.Len())
}
