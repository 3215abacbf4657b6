package container

import (
	"fmt"

	"github.com/arloliu/tenseq/compress"
	"github.com/arloliu/tenseq/endian"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/section"
)

// internalMetaCodec compresses the FileHeader's internal metadata blob. It
// is fixed independent of the container's configured chunk/index
// compressors, since the internal metadata blob is what records those
// choices in the first place and can't depend on them to decode itself.
var internalMetaCodec = compress.NewS2Compressor()

// encodeMetaBlob compresses raw with c and keeps the compressed form only
// if it is strictly smaller; otherwise it falls back to BlobRaw. Mirrors
// encodeIndexOffsets' fallback for a sealed index block's offset array.
func encodeMetaBlob(raw []byte, c compress.Codec) section.Blob {
	if len(raw) == 0 {
		return section.NewRawBlob(raw)
	}
	compressed, err := c.Compress(raw)
	if err != nil || len(compressed) >= len(raw) {
		return section.NewRawBlob(raw)
	}
	return section.Blob{Kind: section.BlobEntropy, Data: compressed}
}

// decodeMetaBlob reverses encodeMetaBlob.
func decodeMetaBlob(b section.Blob, c compress.Codec) ([]byte, error) {
	if b.Kind == section.BlobRaw {
		return b.Data, nil
	}
	return c.Decompress(b.Data)
}

// encodeUserMetaSlot lays out the fixed-capacity on-disk region that
// SetUserMetadata rewrites in place: a u32 length prefix followed by
// payload, zero-padded out to slotCap. The prefix lets a later
// SetUserMetadata call store a shorter (possibly differently-compressed)
// payload than the one Create reserved the slot for, without needing to
// move any byte that follows the slot in the file.
func encodeUserMetaSlot(payload []byte, slotCap int) []byte {
	slot := make([]byte, slotCap)
	endian.GetLittleEndianEngine().PutUint32(slot[:4], uint32(len(payload)))
	copy(slot[4:], payload)
	return slot
}

// decodeUserMetaSlot reverses encodeUserMetaSlot.
func decodeUserMetaSlot(slot []byte) ([]byte, error) {
	if len(slot) < 4 {
		return nil, fmt.Errorf("%w: user metadata slot", errs.ErrShortRead)
	}
	n := endian.GetLittleEndianEngine().Uint32(slot[:4])
	if int(n) > len(slot)-4 {
		return nil, fmt.Errorf("%w: user metadata slot", errs.ErrShortRead)
	}
	out := make([]byte, n)
	copy(out, slot[4:4+n])
	return out, nil
}
