package workspace

import "github.com/arloliu/tenseq/internal/pool"

// Workspace bundles the pair of scratch buffers a codec pipeline needs: one
// for the stage it is currently writing into, one for the stage it just
// read out of, so a multi-step pipeline (e.g. xor-delta then byte-plane
// shuffle) can ping-pong between them without a fresh allocation per stage.
// The two buffers are matched in capacity, not guaranteed to share a cache
// line or satisfy any particular memory alignment.
type Workspace struct {
	Primary   *pool.ByteBuffer
	Secondary *pool.ByteBuffer
}

func newWorkspace() *Workspace {
	return &Workspace{
		Primary:   pool.GetChunkBuffer(),
		Secondary: pool.GetChunkBuffer(),
	}
}

// release returns a Workspace's buffers to the package-level chunk buffer
// pool and clears them, so the Workspace can be parked on Pool's free list
// without pinning two buffers it isn't using.
func (w *Workspace) release() {
	pool.PutChunkBuffer(w.Primary)
	pool.PutChunkBuffer(w.Secondary)
	w.Primary = nil
	w.Secondary = nil
}

// reacquire restores a released Workspace's buffers ahead of its next loan.
func (w *Workspace) reacquire() {
	if w.Primary == nil {
		w.Primary = pool.GetChunkBuffer()
	}
	if w.Secondary == nil {
		w.Secondary = pool.GetChunkBuffer()
	}
}

// PrimaryScratch truncates the Primary buffer to zero and returns it resized
// to exactly n bytes, reusing its backing array when it already has the
// capacity.
func (w *Workspace) PrimaryScratch(n int) []byte {
	w.Primary.Reset()
	w.Primary.Grow(n)
	w.Primary.SetLength(n)
	return w.Primary.Bytes()
}

// SecondaryScratch is PrimaryScratch for the Secondary buffer.
func (w *Workspace) SecondaryScratch(n int) []byte {
	w.Secondary.Reset()
	w.Secondary.Grow(n)
	w.Secondary.SetLength(n)
	return w.Secondary.Bytes()
}

// EnsureCapacity grows both buffers, if needed, so each can hold n bytes
// without reallocating. Call it right after Reset, while both buffers are
// at zero length; Grow's headroom is measured from the buffer's current
// length, not its capacity. Growth is monotonic: a Workspace never shrinks
// its buffers back down, so repeated use against a stable chunk size
// converges to zero reallocations.
func (w *Workspace) EnsureCapacity(n int) {
	w.Primary.Grow(n)
	w.Secondary.Grow(n)
}

// Reset truncates both buffers to zero length while retaining their
// allocated capacity, readying the Workspace for its next borrower.
func (w *Workspace) Reset() {
	w.Primary.Reset()
	w.Secondary.Reset()
}
