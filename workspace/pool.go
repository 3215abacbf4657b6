package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/arloliu/tenseq/errs"
	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of Workspace values concurrently on loan to codec
// pipelines. Its capacity is base_capacity * burst_multiplier permits; a
// blocking Acquire waits for one to free up, while TryAcquire fails fast
// once the burst ceiling is hit. Released Workspace values are parked on a
// free list instead of discarded, so a warm pool converges to zero
// allocations past the first burst-capacity's worth of acquires.
type Pool struct {
	sem             *semaphore.Weighted
	free            sync.Pool
	baseCapacity    int64
	burstMultiplier int64
	reserve         int64
	capacity        int64
}

// NewPool creates a Pool with the given base capacity, burst multiplier,
// and reserve. capacity = baseCapacity * burstMultiplier; reserve must be
// smaller than capacity and is exposed via Reserve for callers that want to
// back off before the pool is fully drained rather than after.
func NewPool(baseCapacity, burstMultiplier, reserve int) (*Pool, error) {
	if baseCapacity <= 0 {
		return nil, fmt.Errorf("%w: base_capacity must be positive, got %d", errs.ErrInvalidPoolConfig, baseCapacity)
	}
	if burstMultiplier <= 0 {
		return nil, fmt.Errorf("%w: burst_multiplier must be positive, got %d", errs.ErrInvalidPoolConfig, burstMultiplier)
	}
	if reserve < 0 {
		return nil, fmt.Errorf("%w: reserve must be non-negative, got %d", errs.ErrInvalidPoolConfig, reserve)
	}

	capacity := int64(baseCapacity) * int64(burstMultiplier)
	if int64(reserve) >= capacity {
		return nil, fmt.Errorf("%w: reserve %d must be smaller than capacity %d", errs.ErrInvalidPoolConfig, reserve, capacity)
	}

	p := &Pool{
		baseCapacity:    int64(baseCapacity),
		burstMultiplier: int64(burstMultiplier),
		reserve:         int64(reserve),
		capacity:        capacity,
	}
	p.sem = semaphore.NewWeighted(capacity)
	p.free.New = func() any { return newWorkspace() }
	return p, nil
}

// Acquire blocks until a Workspace is available or ctx is done. The
// returned Workspace is either fresh or a prior Release's, reused via the
// pool's free list.
func (p *Pool) Acquire(ctx context.Context) (*Workspace, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	ws, _ := p.free.Get().(*Workspace)
	ws.reacquire()
	return ws, nil
}

// TryAcquire returns a Workspace immediately, or errs.ErrPoolExhausted if
// the pool is at its burst ceiling.
func (p *Pool) TryAcquire() (*Workspace, error) {
	if !p.sem.TryAcquire(1) {
		return nil, errs.ErrPoolExhausted
	}
	ws, _ := p.free.Get().(*Workspace)
	ws.reacquire()
	return ws, nil
}

// Release returns a Workspace's permit to the pool and parks the Workspace
// itself on the free list. Its two buffers go back to the package-level
// chunk buffer pool first; the next Acquire that reuses the Workspace takes
// buffers from that pool again.
func (p *Pool) Release(ws *Workspace) {
	if ws != nil {
		ws.release()
		p.free.Put(ws)
	}
	p.sem.Release(1)
}

// Capacity returns base_capacity * burst_multiplier.
func (p *Pool) Capacity() int { return int(p.capacity) }

// BaseCapacity returns the pool's steady-state (non-burst) capacity.
func (p *Pool) BaseCapacity() int { return int(p.baseCapacity) }

// Reserve returns the headroom callers were told to treat as emergency
// capacity.
func (p *Pool) Reserve() int { return int(p.reserve) }
