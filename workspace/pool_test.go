package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/arloliu/tenseq/errs"
	"github.com/stretchr/testify/require"
)

func TestNewPool_ComputesCapacity(t *testing.T) {
	p, err := NewPool(4, 2, 1)
	require.NoError(t, err)
	require.Equal(t, 8, p.Capacity())
	require.Equal(t, 4, p.BaseCapacity())
	require.Equal(t, 1, p.Reserve())
}

func TestNewPool_RejectsInvalidConfig(t *testing.T) {
	_, err := NewPool(0, 2, 0)
	require.ErrorIs(t, err, errs.ErrInvalidPoolConfig)

	_, err = NewPool(4, 0, 0)
	require.ErrorIs(t, err, errs.ErrInvalidPoolConfig)

	_, err = NewPool(4, 1, -1)
	require.ErrorIs(t, err, errs.ErrInvalidPoolConfig)

	_, err = NewPool(2, 1, 2)
	require.ErrorIs(t, err, errs.ErrInvalidPoolConfig)
}

func TestPool_AcquireAndRelease(t *testing.T) {
	p, err := NewPool(1, 1, 0)
	require.NoError(t, err)

	ws, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ws)

	_, err = p.TryAcquire()
	require.ErrorIs(t, err, errs.ErrPoolExhausted)

	p.Release(ws)

	ws2, err := p.TryAcquire()
	require.NoError(t, err)
	require.NotNil(t, ws2)
}

func TestPool_AcquireBlocksUntilRelease(t *testing.T) {
	p, err := NewPool(1, 1, 0)
	require.NoError(t, err)

	ws, err := p.Acquire(context.Background())
	require.NoError(t, err)

	released := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		p.Release(ws)
		close(released)
	}()

	start := time.Now()
	ws2, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ws2)
	require.Greater(t, time.Since(start), 10*time.Millisecond)
	<-released
}

func TestPool_AcquireRespectsContextCancellation(t *testing.T) {
	p, err := NewPool(1, 1, 0)
	require.NoError(t, err)

	_, err = p.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = p.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
