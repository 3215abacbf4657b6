package container

import (
	"context"
	"fmt"

	"github.com/arloliu/tenseq/codec"
	"github.com/arloliu/tenseq/compress"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/internal/options"
	"github.com/arloliu/tenseq/section"
	"github.com/arloliu/tenseq/storage"
	"github.com/arloliu/tenseq/workspace"
)

// Writer appends tensor chunks to a single container backend. A Writer
// exclusively owns its backend; nothing else may read or write through it
// concurrently.
type Writer struct {
	backend storage.Backend

	capacity         int
	chunkCompression format.CompressionType
	indexCompression format.CompressionType
	chunkCodec       compress.Codec
	indexCodec       compress.Codec

	states *codec.StateCache
	wsPool *workspace.Pool

	activeOffset int64
	activeBlock  *section.IndexBlock
	activeCount  int
	end          int64

	userMetaRawCap     int
	userMetaSlotCap    int
	userMetaSlotOffset int64
	userMetaKindOffset int64
	hasChunks          bool
	closed             bool
}

// Create opens backend as a brand-new container, writing the header and
// the first (empty) index block. backend must be empty.
func Create(backend storage.Backend, userMeta []byte, opts ...Option) (*Writer, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	chunkCodec, err := compress.CreateCodec(cfg.ChunkCompression, "chunk")
	if err != nil {
		return nil, err
	}
	indexCodec, err := compress.CreateCodec(cfg.IndexCompression, "index")
	if err != nil {
		return nil, err
	}

	internalBlob := encodeMetaBlob(encodeInternalMeta(cfg.IndexCapacity, cfg.ChunkCompression, cfg.IndexCompression), internalMetaCodec)

	userMetaSlotCap := len(userMeta) + 4
	userBlob := encodeMetaBlob(userMeta, indexCodec)
	userHeaderBlob := section.Blob{Kind: userBlob.Kind, Data: encodeUserMetaSlot(userBlob.Data, userMetaSlotCap)}

	header := section.FileHeader{
		InternalMeta: internalBlob,
		UserMeta:     userHeaderBlob,
	}
	headerBytes := header.Bytes()

	if err := backend.Rewind(); err != nil {
		return nil, err
	}
	if err := writeFull(backend, headerBytes); err != nil {
		return nil, err
	}

	block := section.NewIndexBlock(cfg.IndexCapacity)
	block.Hash = section.HashOffsets(block.Offsets)
	blockBytes, err := block.Bytes(cfg.IndexCapacity)
	if err != nil {
		return nil, err
	}
	activeOffset := int64(len(headerBytes))
	if err := writeFull(backend, blockBytes); err != nil {
		return nil, err
	}

	w := &Writer{
		backend:            backend,
		capacity:           cfg.IndexCapacity,
		chunkCompression:   cfg.ChunkCompression,
		indexCompression:   cfg.IndexCompression,
		chunkCodec:         chunkCodec,
		indexCodec:         indexCodec,
		states:             codec.NewStateCache(),
		wsPool:             cfg.WorkspacePool,
		activeOffset:       activeOffset,
		activeBlock:        block,
		activeCount:        0,
		end:                activeOffset + int64(len(blockBytes)),
		userMetaRawCap:     len(userMeta),
		userMetaSlotCap:    userMetaSlotCap,
		userMetaSlotOffset: int64(len(headerBytes) - userMetaSlotCap),
		userMetaKindOffset: int64(len(headerBytes) - userMetaSlotCap - 1),
	}
	return w, nil
}

// OpenAppend resumes writing to an existing container: it parses the
// header, walks the index chain to its tail, and replays every existing
// chunk to rebuild per-stream codec state so the next Append continues
// each stream's delta encoding correctly.
func OpenAppend(backend storage.Backend) (*Writer, error) {
	data, err := readAll(backend)
	if err != nil {
		return nil, err
	}

	var header section.FileHeader
	headerLen, err := header.Parse(data)
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

	states := codec.NewStateCache()

	blockOffset := int64(headerLen)
	var block *section.IndexBlock
	var chunkOffsets []uint64

	for {
		if blockOffset < 0 || int(blockOffset) > len(data) {
			return nil, fmt.Errorf("%w: index chain pointer out of range", errs.ErrSeekOutOfRange)
		}
		block = &section.IndexBlock{}
		if _, err := block.Parse(data[blockOffset:], capacity); err != nil {
			return nil, err
		}
		if err := resolveIndexBlock(block, capacity, indexCodec); err != nil {
			return nil, err
		}

		used := usedSlots(block, capacity)
		chunkOffsets = append(chunkOffsets, block.Offsets[:used]...)

		next := block.NextOffset()
		if next == 0 {
			break
		}
		blockOffset = int64(next)
	}

	wsPool := newDefaultWorkspacePool()
	replayWs, err := wsPool.Acquire(context.Background())
	if err != nil {
		return nil, err
	}
	for _, off := range chunkOffsets {
		rec := &section.ChunkRecord{}
		if _, err := rec.Parse(data[off:]); err != nil {
			wsPool.Release(replayWs)
			return nil, err
		}
		if _, err := decodeChunkPayload(rec, chunkCodec, states, true, replayWs); err != nil {
			wsPool.Release(replayWs)
			return nil, err
		}
	}
	wsPool.Release(replayWs)

	w := &Writer{
		backend:            backend,
		capacity:           capacity,
		chunkCompression:   chunkCompression,
		indexCompression:   indexCompression,
		chunkCodec:         chunkCodec,
		indexCodec:         indexCodec,
		states:             states,
		wsPool:             wsPool,
		activeOffset:       blockOffset,
		activeBlock:        block,
		activeCount:        usedSlots(block, capacity),
		end:                int64(len(data)),
		userMetaRawCap:     len(header.UserMeta.Data) - 4,
		userMetaSlotCap:    len(header.UserMeta.Data),
		userMetaSlotOffset: int64(headerLen) - int64(len(header.UserMeta.Data)),
		userMetaKindOffset: int64(headerLen) - int64(len(header.UserMeta.Data)) - 1,
		hasChunks:          len(chunkOffsets) > 0,
	}
	return w, nil
}

// Append encodes raw (the tensor's raw, pre-pipeline bytes) via codecTag
// and writes it as the next chunk. shape's leading dimension may vary
// chunk to chunk; its trailing dimensions, together with codecTag and dt,
// identify the logical stream whose delta state this chunk chains from.
func (w *Writer) Append(shape []int64, dt format.Dtype, codecTag format.Codec, raw []byte) error {
	if w.closed {
		return errs.ErrWriterClosed
	}

	if w.activeCount >= w.capacity {
		if err := w.sealAndRotate(); err != nil {
			return err
		}
	}

	ws, err := w.wsPool.Acquire(context.Background())
	if err != nil {
		return err
	}
	defer w.wsPool.Release(ws)

	key := codec.StreamKey(codecTag, dt, trailingShapeOf(shape))
	prevState := w.states.Get(key)
	encoded, newState, err := codec.Encode(codecTag, dt, shape, raw, prevState, ws)
	if err != nil {
		return err
	}

	flags := format.Flags(0)
	payload := encoded
	if w.chunkCompression != format.CompressionNone {
		compressed, cerr := w.chunkCodec.Compress(encoded)
		if cerr == nil && len(compressed) < len(encoded) {
			payload = compressed
			flags |= format.FlagEntropyCoded
		}
	}

	rec := &section.ChunkRecord{
		Codec:   codecTag,
		Dtype:   dt,
		Hash:    section.HashPayload(raw),
		Flags:   flags,
		Shape:   shape,
		Payload: payload,
	}
	recBytes, err := rec.Bytes()
	if err != nil {
		return err
	}

	chunkOffset := w.end
	if err := writeFull(w.backend, recBytes); err != nil {
		return err
	}
	w.end += int64(len(recBytes))
	w.states.Put(key, newState)

	w.activeBlock.Offsets[w.activeCount] = uint64(chunkOffset)
	w.activeCount++
	w.activeBlock.Hash = section.HashOffsets(w.activeBlock.Offsets)
	blockBytes, err := w.activeBlock.Bytes(w.capacity)
	if err != nil {
		return err
	}
	if err := writeFullAt(w.backend, w.activeOffset, blockBytes); err != nil {
		return err
	}
	w.hasChunks = true
	return nil
}

// sealAndRotate finalizes the current active index block (optionally
// entropy-compressing its offset array) and starts a fresh, empty one at
// the current end of the backend.
func (w *Writer) sealAndRotate() error {
	newBlockOffset := w.end
	w.activeBlock.Offsets[w.capacity] = uint64(newBlockOffset)

	kind, encoded := encodeIndexOffsets(w.activeBlock.Offsets, w.indexCodec)
	sealed := &section.IndexBlock{
		Kind:           kind,
		Hash:           section.HashOffsets(w.activeBlock.Offsets),
		Offsets:        w.activeBlock.Offsets,
		EncodedPayload: encoded,
	}
	sealedBytes, err := sealed.Bytes(w.capacity)
	if err != nil {
		return err
	}
	if err := writeFullAt(w.backend, w.activeOffset, sealedBytes); err != nil {
		return err
	}

	next := section.NewIndexBlock(w.capacity)
	next.Hash = section.HashOffsets(next.Offsets)
	nextBytes, err := next.Bytes(w.capacity)
	if err != nil {
		return err
	}
	if err := writeFull(w.backend, nextBytes); err != nil {
		return err
	}

	w.activeBlock = next
	w.activeOffset = newBlockOffset
	w.activeCount = 0
	w.end += int64(len(nextBytes))
	return nil
}

// SetUserMetadata overwrites the container's user metadata slot in place,
// entropy-compressing meta with the container's index compressor and
// falling back to raw storage if compression doesn't shrink it. It is only
// permitted before the first chunk is appended (errs.ErrMetadataLocked
// otherwise) and meta must fit within the capacity reserved at Create
// (errs.ErrHeaderGrowthRefused otherwise), since the header's on-disk length
// is fixed once the index chain begins right after it.
func (w *Writer) SetUserMetadata(meta []byte) error {
	if w.closed {
		return errs.ErrWriterClosed
	}
	if w.hasChunks {
		return errs.ErrMetadataLocked
	}
	if len(meta) > w.userMetaRawCap {
		return fmt.Errorf("%w: %d bytes exceeds reserved %d", errs.ErrHeaderGrowthRefused, len(meta), w.userMetaRawCap)
	}

	blob := encodeMetaBlob(meta, w.indexCodec)
	if err := writeFullAt(w.backend, w.userMetaKindOffset, []byte{byte(blob.Kind)}); err != nil {
		return err
	}
	slot := encodeUserMetaSlot(blob.Data, w.userMetaSlotCap)
	return writeFullAt(w.backend, w.userMetaSlotOffset, slot)
}

// Flush forces any buffered writes to the underlying medium.
func (w *Writer) Flush() error {
	if w.closed {
		return errs.ErrWriterClosed
	}
	return w.backend.Flush()
}

// Close flushes and closes the backend. Any further method call on a
// closed Writer returns errs.ErrWriterClosed.
func (w *Writer) Close() error {
	if w.closed {
		return errs.ErrWriterClosed
	}
	w.closed = true
	if err := w.backend.Flush(); err != nil {
		_ = w.backend.Close()
		return err
	}
	return w.backend.Close()
}
