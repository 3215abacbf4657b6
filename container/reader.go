package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/tenseq/codec"
	"github.com/arloliu/tenseq/compress"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/section"
	"github.com/arloliu/tenseq/storage"
	"github.com/arloliu/tenseq/workspace"
)

// Chunk is one decoded tensor slice returned by Reader. EncodedSize is the
// on-disk payload length (after entropy compression, before codec
// decoding); len(Raw) is the decoded size.
type Chunk struct {
	Shape       []int64
	Dtype       format.Dtype
	Codec       format.Codec
	Raw         []byte
	EncodedSize int
}

// Reader walks a container's index chain and decodes chunks on demand.
// Delta-encoded streams only decode correctly when visited in the order
// they were appended, so Reader keeps a cursor and per-stream codec.State;
// GetChunk accepts any index but, on a backward jump, replays every chunk
// from the start of the chain to rebuild state before returning the one
// requested.
type Reader struct {
	backend storage.Backend

	capacity   int
	chunkCodec compress.Codec
	indexCodec compress.Codec

	header   section.FileHeader
	userMeta []byte
	offsets  []uint64

	states *codec.StateCache
	cursor int
	wsPool *workspace.Pool

	closed bool
}

// Open parses backend's header and walks its index chain, verifying every
// block's integrity hash along the way.
func Open(backend storage.Backend) (*Reader, error) {
	header, headerLen, err := parseHeaderFromBackend(backend)
	if err != nil {
		return nil, err
	}
	internalRaw, err := decodeMetaBlob(header.InternalMeta, internalMetaCodec)
	if err != nil {
		return nil, err
	}
	capacity, chunkCompression, indexCompression, err := decodeInternalMeta(internalRaw)
	if err != nil {
		return nil, err
	}

	chunkCodec, err := compress.CreateCodec(chunkCompression, "chunk")
	if err != nil {
		return nil, err
	}
	indexCodec, err := compress.CreateCodec(indexCompression, "index")
	if err != nil {
		return nil, err
	}

	userSlot, err := decodeUserMetaSlot(header.UserMeta.Data)
	if err != nil {
		return nil, err
	}
	userMeta, err := decodeMetaBlob(section.Blob{Kind: header.UserMeta.Kind, Data: userSlot}, indexCodec)
	if err != nil {
		return nil, err
	}

	var offsets []uint64
	blockOffset := headerLen
	for {
		block, err := readIndexBlockAt(backend, blockOffset, capacity)
		if err != nil {
			return nil, err
		}
		if err := resolveIndexBlock(block, capacity, indexCodec); err != nil {
			return nil, err
		}

		used := usedSlots(block, capacity)
		offsets = append(offsets, block.Offsets[:used]...)

		next := block.NextOffset()
		if next == 0 {
			break
		}
		blockOffset = int64(next)
	}

	return &Reader{
		backend:    backend,
		capacity:   capacity,
		chunkCodec: chunkCodec,
		indexCodec: indexCodec,
		header:     header,
		userMeta:   userMeta,
		offsets:    offsets,
		states:     codec.NewStateCache(),
		wsPool:     newDefaultWorkspacePool(),
	}, nil
}

// parseHeaderFromBackend parses the FileHeader from the start of backend,
// growing its read buffer until Parse succeeds (its blob lengths aren't
// known in advance).
func parseHeaderFromBackend(b storage.Backend) (section.FileHeader, int64, error) {
	size, err := b.Size()
	if err != nil {
		return section.FileHeader{}, 0, err
	}

	bufLen := int64(4096)
	if bufLen > size {
		bufLen = size
	}

	for {
		if err := b.Rewind(); err != nil {
			return section.FileHeader{}, 0, err
		}
		buf := make([]byte, bufLen)
		n, err := b.Read(buf)
		if err != nil {
			return section.FileHeader{}, 0, err
		}
		buf = buf[:n]

		var header section.FileHeader
		consumed, perr := header.Parse(buf)
		if perr == nil {
			return header, int64(consumed), nil
		}
		if !errors.Is(perr, errs.ErrShortRead) {
			return section.FileHeader{}, 0, perr
		}
		if bufLen >= size {
			return section.FileHeader{}, 0, perr
		}
		bufLen *= 2
		if bufLen > size {
			bufLen = size
		}
	}
}

// NumChunks returns the total number of chunks recorded across the whole
// index chain.
func (r *Reader) NumChunks() int { return len(r.offsets) }

// IndexCapacity returns the chain's per-block chunk capacity.
func (r *Reader) IndexCapacity() int { return r.capacity }

// UserMetadata returns the container's user metadata blob, already
// decompressed if it was stored entropy-coded.
func (r *Reader) UserMetadata() []byte { return r.userMeta }

// GetChunk decodes and returns the chunk at index i, verifying its integrity
// hash. Forward access (an index past the last one read) is O(1) amortized;
// reading the same index again, like any backward jump, rebuilds every
// stream's state by replaying from the start of the chain.
func (r *Reader) GetChunk(i int) (Chunk, error) {
	return r.GetChunkChecked(i, true)
}

// GetChunkChecked is GetChunk with control over hash verification: with
// checkChecksum false, a corrupted chunk's decoded bytes are returned
// unchanged instead of failing with errs.ErrChunkHashMismatch. Chunks
// replayed only to rebuild a skipped-ahead stream's state are always
// verified, regardless of checkChecksum, since an undetected corruption
// there would silently poison every later chunk's decode.
func (r *Reader) GetChunkChecked(i int, checkChecksum bool) (Chunk, error) {
	if r.closed {
		return Chunk{}, errs.ErrClosed
	}
	if i < 0 || i >= len(r.offsets) {
		return Chunk{}, fmt.Errorf("%w: %d", errs.ErrIndexOutOfRange, i)
	}

	if i < r.cursor {
		r.states.Reset()
		r.cursor = 0
	}
	for r.cursor < i {
		if _, err := r.decodeAt(r.cursor, true); err != nil {
			return Chunk{}, err
		}
		r.cursor++
	}

	c, err := r.decodeAt(i, checkChecksum)
	if err != nil {
		return Chunk{}, err
	}
	r.cursor = i + 1
	return c, nil
}

func (r *Reader) decodeAt(i int, checkChecksum bool) (Chunk, error) {
	rec, err := readChunkRecordAt(r.backend, int64(r.offsets[i]))
	if err != nil {
		return Chunk{}, err
	}
	encodedSize := len(rec.Payload)

	ws, err := r.wsPool.Acquire(context.Background())
	if err != nil {
		return Chunk{}, err
	}
	defer r.wsPool.Release(ws)

	raw, err := decodeChunkPayload(rec, r.chunkCodec, r.states, checkChecksum, ws)
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{Shape: rec.Shape, Dtype: rec.Dtype, Codec: rec.Codec, Raw: raw, EncodedSize: encodedSize}, nil
}

// Rewind resets the reader's cursor and per-stream state, so the next
// GetChunk(0) (or sequential ascending access) starts decoding cold.
func (r *Reader) Rewind() {
	r.cursor = 0
	r.states.Reset()
}

// Close releases the backend.
func (r *Reader) Close() error {
	if r.closed {
		return errs.ErrClosed
	}
	r.closed = true
	return r.backend.Close()
}
