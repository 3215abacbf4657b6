package container

import (
	"fmt"

	"github.com/arloliu/tenseq/compress"
	"github.com/arloliu/tenseq/endian"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/internal/pool"
	"github.com/arloliu/tenseq/kernels"
	"github.com/arloliu/tenseq/section"
)

// encodeIndexOffsets picks how a sealed IndexBlock's N+1 offset array is
// stored on disk. It runs the array through the same arithmetic-delta
// kernel the t1d_i64_delta codec uses (consecutive chunk offsets, and the
// trailing next-block pointer, only ever grow, so deltas are small and
// compress well), then entropy-codes the result. If that isn't actually
// smaller than the raw fixed layout, it falls back to BlockRaw.
func encodeIndexOffsets(offsets []uint64, c compress.Codec) (section.BlockKind, []byte) {
	raw := deltaEncodeOffsets(offsets)
	compressed, err := c.Compress(raw)
	if err != nil || len(compressed) >= len(raw) {
		return section.BlockRaw, nil
	}
	return section.BlockEntropy, compressed
}

// decodeIndexOffsets reverses encodeIndexOffsets, given the block's known
// slot count (capacity+1).
func decodeIndexOffsets(payload []byte, count int, c compress.Codec) ([]uint64, error) {
	raw, err := c.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompressionFailure, err)
	}
	if len(raw) != 8*count {
		return nil, fmt.Errorf("%w: decoded index block payload is %d bytes, want %d", errs.ErrSizeMismatch, len(raw), 8*count)
	}
	return deltaDecodeOffsets(raw, count), nil
}

func deltaEncodeOffsets(offsets []uint64) []byte {
	vals, release := pool.GetInt64Slice(len(offsets))
	defer release()
	for i, v := range offsets {
		vals[i] = int64(v)
	}
	deltas, _ := kernels.ArithDelta(vals, 0)

	engine := endian.GetLittleEndianEngine()
	out := make([]byte, 8*len(deltas))
	for i, d := range deltas {
		engine.PutUint64(out[8*i:8*i+8], uint64(d))
	}
	return out
}

func deltaDecodeOffsets(raw []byte, count int) []uint64 {
	engine := endian.GetLittleEndianEngine()
	deltas, release := pool.GetInt64Slice(count)
	defer release()
	for i := range deltas {
		deltas[i] = int64(engine.Uint64(raw[8*i : 8*i+8]))
	}
	vals, _ := kernels.UnArithDelta(deltas, 0)

	offsets := make([]uint64, count)
	for i, v := range vals {
		offsets[i] = uint64(v)
	}
	return offsets
}
