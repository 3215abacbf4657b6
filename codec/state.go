package codec

import (
	"sync"

	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/internal/hash"
)

// State carries the prev-element(s) a delta pipeline XORs or subtracts
// against. 1-D pipelines use Scalar; 2-D pipelines use Row (one element per
// feature column); order-book pipelines use Snapshot (one element per
// depth*field lane). A zero-value State is the correct starting state for a
// stream's first chunk.
type State struct {
	Scalar   uint64
	Row      []uint64
	Snapshot []uint64
}

// Clone returns a deep copy, so callers can retain a State across an
// Encode/Decode call that also returns an updated one.
func (s *State) Clone() *State {
	if s == nil {
		return &State{}
	}
	clone := &State{Scalar: s.Scalar}
	if s.Row != nil {
		clone.Row = append([]uint64(nil), s.Row...)
	}
	if s.Snapshot != nil {
		clone.Snapshot = append([]uint64(nil), s.Snapshot...)
	}
	return clone
}

// StreamKey hashes the identifying shape of a tensor stream (its codec,
// dtype, and trailing shape dimensions excluding the leading, per-chunk
// row/snapshot count) into a cache key. Two chunks with the same key are
// assumed to be consecutive chunks of the same logical stream and therefore
// chain delta state across the append boundary.
func StreamKey(c format.Codec, dt format.Dtype, trailingShape []int64) uint64 {
	buf := make([]byte, 0, 4+len(trailingShape)*8)
	buf = append(buf, byte(c), byte(c>>8), byte(dt), byte(dt>>8))
	for _, d := range trailingShape {
		v := uint64(d)
		buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
			byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
	}
	return hash.QuickHash(buf)
}

// StateCache holds the running State for every live stream in a container,
// keyed by StreamKey. It is safe for concurrent use; a single writer or
// reader still only touches one key at a time in practice, but readers may
// service concurrent GetChunk calls across different streams.
type StateCache struct {
	mu     sync.Mutex
	states map[uint64]*State
}

// NewStateCache returns an empty cache.
func NewStateCache() *StateCache {
	return &StateCache{states: make(map[uint64]*State)}
}

// Get returns the stream's current state, or a fresh zero State if this is
// the stream's first access.
func (c *StateCache) Get(key uint64) *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.states[key]; ok {
		return s
	}
	return &State{}
}

// Put records a stream's updated state after a successful Encode/Decode.
func (c *StateCache) Put(key uint64, s *State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[key] = s
}

// Reset discards all cached state, e.g. after a Reader is rewound to the
// start of the chunk stream.
func (c *StateCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = make(map[uint64]*State)
}
