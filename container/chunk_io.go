package container

import (
	"fmt"

	"github.com/arloliu/tenseq/codec"
	"github.com/arloliu/tenseq/compress"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/internal/pool"
	"github.com/arloliu/tenseq/section"
	"github.com/arloliu/tenseq/storage"
	"github.com/arloliu/tenseq/workspace"
)

// readIndexBlockAt reads and parses the fixed-size index block record at
// offset. It does not resolve an entropy-kind block's offsets or verify its
// hash; callers run that through resolveIndexBlock.
func readIndexBlockAt(b storage.Backend, offset int64, capacity int) (*section.IndexBlock, error) {
	size := section.MaxRecordSize(capacity)
	if err := b.Seek(offset); err != nil {
		return nil, err
	}

	bb := pool.GetIndexBuffer()
	defer pool.PutIndexBuffer(bb)
	bb.Reset()
	bb.Grow(size)
	bb.SetLength(size)
	buf := bb.Bytes()

	n, err := b.Read(buf)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, errs.ErrShortRead
	}
	block := &section.IndexBlock{}
	if _, err := block.Parse(buf, capacity); err != nil {
		return nil, err
	}
	return block, nil
}

// resolveIndexBlock decompresses an entropy-kind block's offset array and
// verifies the block's integrity hash against the logical offsets.
func resolveIndexBlock(block *section.IndexBlock, capacity int, indexCodec compress.Codec) error {
	if block.Kind == section.BlockEntropy {
		offsets, err := decodeIndexOffsets(block.EncodedPayload, capacity+1, indexCodec)
		if err != nil {
			return err
		}
		block.Offsets = offsets
	}
	if section.HashOffsets(block.Offsets) != block.Hash {
		return errs.ErrBlockHashMismatch
	}
	return nil
}

// usedSlots counts the leading non-zero chunk offsets in a block's first
// capacity slots (the trailing slot is always the next-block pointer, never
// a chunk offset). Slots are filled front-to-back by Append, so the first
// zero marks the end of live entries.
func usedSlots(block *section.IndexBlock, capacity int) int {
	n := 0
	for i := 0; i < capacity && i < len(block.Offsets); i++ {
		if block.Offsets[i] == 0 {
			break
		}
		n++
	}
	return n
}

// readChunkRecordAt reads and parses the variable-size chunk record at
// offset.
func readChunkRecordAt(b storage.Backend, offset int64) (*section.ChunkRecord, error) {
	if err := b.Seek(offset); err != nil {
		return nil, err
	}
	sizeTotal, err := storage.ReadUint32(b)
	if err != nil {
		return nil, err
	}
	if err := b.Seek(offset); err != nil {
		return nil, err
	}

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)
	bb.Reset()
	bb.Grow(int(sizeTotal))
	bb.SetLength(int(sizeTotal))
	buf := bb.Bytes()

	n, err := b.Read(buf)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, errs.ErrShortRead
	}
	rec := &section.ChunkRecord{}
	if _, err := rec.Parse(buf); err != nil {
		return nil, err
	}
	return rec, nil
}

// trailingShapeOf drops a shape's leading, per-chunk-varying dimension
// (row/snapshot count), leaving the identifying shape of the logical
// stream a chunk belongs to.
func trailingShapeOf(shape []int64) []int64 {
	if len(shape) == 0 {
		return nil
	}
	return shape[1:]
}

// decodeChunkPayload reverses entropy compression (if FlagEntropyCoded is
// set) and the chunk's codec pipeline, verifying the resulting raw bytes
// against the record's integrity hash, and advances the stream's state in
// states. ws lends pipeline scratch space and may be nil.
func decodeChunkPayload(rec *section.ChunkRecord, chunkCodec compress.Codec, states *codec.StateCache, checkChecksum bool, ws *workspace.Workspace) ([]byte, error) {
	payload := rec.Payload
	if rec.Flags.Has(format.FlagEntropyCoded) {
		decompressed, err := chunkCodec.Decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrDecompressionFailure, err)
		}
		payload = decompressed
	}

	key := codec.StreamKey(rec.Codec, rec.Dtype, trailingShapeOf(rec.Shape))
	prevState := states.Get(key)
	raw, newState, err := codec.Decode(rec.Codec, rec.Dtype, rec.Shape, payload, prevState, ws)
	if err != nil {
		return nil, err
	}
	states.Put(key, newState)

	if checkChecksum && section.HashPayload(raw) != rec.Hash {
		return nil, errs.ErrChunkHashMismatch
	}
	return raw, nil
}
