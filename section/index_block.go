package section

import (
	"fmt"

	"github.com/arloliu/tenseq/endian"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/internal/hash"
)

// BlockKind tags how an IndexBlock's offset array is stored on disk.
type BlockKind uint16

const (
	BlockRaw     BlockKind = 1
	BlockEntropy BlockKind = 2
)

func (k BlockKind) valid() bool {
	return k == BlockRaw || k == BlockEntropy
}

// IndexBlock is a fixed-capacity array of chunk offsets, chained to its
// successor by a trailing next-block offset. Offsets holds the full logical
// N+1 array: Offsets[N] is the next-block offset (zero at the chain's tail).
//
// EncodedPayload holds the compressed form of Offsets when Kind is
// BlockEntropy. This package never compresses or decompresses it; the caller
// runs the offset array through an entropy pipeline and supplies the result
// here, then decides whether the compressed form is actually smaller before
// choosing Kind.
type IndexBlock struct {
	Kind           BlockKind
	Hash           [hash.Size256]byte
	Offsets        []uint64
	EncodedPayload []byte
}

// NewIndexBlock returns an empty raw block with capacity+1 zero slots.
func NewIndexBlock(capacity int) *IndexBlock {
	return &IndexBlock{Kind: BlockRaw, Offsets: make([]uint64, capacity+1)}
}

// NextOffset returns the trailing next-block offset, or 0 if Offsets is
// empty or not yet populated (e.g. an unparsed entropy block).
func (b *IndexBlock) NextOffset() uint64 {
	if len(b.Offsets) == 0 {
		return 0
	}
	return b.Offsets[len(b.Offsets)-1]
}

// HashOffsets computes the integrity hash over the logical N+1 offset array
// using the host's native u64 layout (spec invariant: index hashes are only
// ever checked on the writing host, so no endian normalization is needed).
func HashOffsets(offsets []uint64) [hash.Size256]byte {
	h := hash.NewHasher()
	h.WriteUint64sNative(offsets)
	return h.Sum256()
}

// MaxRecordSize returns the on-disk byte length every index block of the
// given capacity occupies, raw or entropy-compressed.
func MaxRecordSize(capacity int) uint32 {
	return uint32(indexBlockFixedHeaderSize + 4 + 8*(capacity+1))
}

// Bytes serializes the block for the given capacity. For Kind==BlockEntropy
// it pads EncodedPayload with zeros up to MaxRecordSize(capacity), returning
// an error if the compressed payload is already too large to fit.
func (b *IndexBlock) Bytes(capacity int) ([]byte, error) {
	if !b.Kind.valid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidBlockKind, b.Kind)
	}

	engine := endian.GetLittleEndianEngine()
	maxSize := MaxRecordSize(capacity)
	payloadCap := int(maxSize) - indexBlockFixedHeaderSize

	var payload []byte
	switch b.Kind {
	case BlockRaw:
		if len(b.Offsets) != capacity+1 {
			return nil, fmt.Errorf("%w: have %d slots want %d", errs.ErrCapacityMismatch, len(b.Offsets), capacity+1)
		}
		payload = make([]byte, payloadCap)
		engine.PutUint32(payload[0:4], uint32(capacity+1))
		for i, off := range b.Offsets {
			engine.PutUint64(payload[4+8*i:4+8*i+8], off)
		}
	case BlockEntropy:
		used := 4 + len(b.EncodedPayload)
		if used > payloadCap {
			return nil, fmt.Errorf("%w: compressed index block of %d bytes exceeds padded capacity %d", errs.ErrSizeMismatch, used, payloadCap)
		}
		payload = make([]byte, payloadCap)
		engine.PutUint32(payload[0:4], uint32(len(b.EncodedPayload)))
		copy(payload[4:], b.EncodedPayload)
	}

	out := make([]byte, indexBlockFixedHeaderSize+len(payload))
	engine.PutUint32(out[0:4], uint32(len(out)))
	engine.PutUint16(out[4:6], uint16(b.Kind))
	copy(out[6:indexBlockFixedHeaderSize], b.Hash[:])
	copy(out[indexBlockFixedHeaderSize:], payload)
	return out, nil
}

// Parse reads an IndexBlock of the given capacity from the start of data,
// returning the number of bytes consumed. For BlockEntropy it leaves Offsets
// nil; the caller must decompress EncodedPayload and populate Offsets before
// trusting NextOffset or the integrity hash.
func (b *IndexBlock) Parse(data []byte, capacity int) (int, error) {
	if len(data) < indexBlockFixedHeaderSize {
		return 0, errs.ErrShortRead
	}

	engine := endian.GetLittleEndianEngine()
	sizeTotal := engine.Uint32(data[0:4])
	if int(sizeTotal) > len(data) {
		return 0, errs.ErrShortRead
	}

	kind := BlockKind(engine.Uint16(data[4:6]))
	if !kind.valid() {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidBlockKind, kind)
	}

	var h [hash.Size256]byte
	copy(h[:], data[6:indexBlockFixedHeaderSize])
	rest := data[indexBlockFixedHeaderSize:sizeTotal]

	b.Kind = kind
	b.Hash = h

	switch kind {
	case BlockRaw:
		if len(rest) < 4 {
			return 0, errs.ErrShortRead
		}
		count := engine.Uint32(rest[0:4])
		if int(count) != capacity+1 {
			return 0, fmt.Errorf("%w: got %d want %d", errs.ErrCapacityMismatch, count, capacity+1)
		}
		need := 4 + 8*int(count)
		if len(rest) < need {
			return 0, errs.ErrShortRead
		}
		offsets := make([]uint64, count)
		for i := range offsets {
			offsets[i] = engine.Uint64(rest[4+8*i : 4+8*i+8])
		}
		b.Offsets = offsets
		b.EncodedPayload = nil
	case BlockEntropy:
		if len(rest) < 4 {
			return 0, errs.ErrShortRead
		}
		blobLen := engine.Uint32(rest[0:4])
		if len(rest) < 4+int(blobLen) {
			return 0, errs.ErrShortRead
		}
		blob := make([]byte, blobLen)
		copy(blob, rest[4:4+blobLen])
		b.EncodedPayload = blob
		b.Offsets = nil
	}

	return int(sizeTotal), nil
}
