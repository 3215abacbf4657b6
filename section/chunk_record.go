package section

import (
	"fmt"

	"github.com/arloliu/tenseq/endian"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/internal/hash"
)

// ChunkRecord is one appended tensor payload plus its metadata. Hash covers
// the raw, pre-encoding bytes of the tensor, not Payload (which may be
// codec-transformed and/or entropy-compressed per Flags).
type ChunkRecord struct {
	Codec   format.Codec
	Dtype   format.Dtype
	Hash    [hash.Size256]byte
	Flags   format.Flags
	Shape   []int64
	Payload []byte
}

// HashPayload computes the integrity hash of raw pre-encoding tensor bytes.
func HashPayload(raw []byte) [hash.Size256]byte {
	return hash.Sum256Bytes(raw)
}

// Bytes serializes the record. ndim is always the exact length of Shape; no
// terminator is ever emitted.
func (r *ChunkRecord) Bytes() ([]byte, error) {
	if len(r.Shape) > format.MaxShapeDims {
		return nil, fmt.Errorf("%w: %d dims exceeds max %d", errs.ErrInvalidShape, len(r.Shape), format.MaxShapeDims)
	}
	for _, d := range r.Shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension %d", errs.ErrInvalidShape, d)
		}
	}

	engine := endian.GetLittleEndianEngine()
	size := chunkRecordFixedHeaderSize + 4 + 8*len(r.Shape) + 4 + len(r.Payload)

	buf := make([]byte, 0, size)
	buf = engine.AppendUint32(buf, uint32(size))
	buf = engine.AppendUint16(buf, uint16(r.Codec))
	buf = engine.AppendUint16(buf, uint16(r.Dtype))
	buf = append(buf, r.Hash[:]...)
	buf = engine.AppendUint64(buf, uint64(r.Flags))
	buf = engine.AppendUint32(buf, uint32(len(r.Shape)))
	for _, d := range r.Shape {
		buf = engine.AppendUint64(buf, uint64(d))
	}
	buf = engine.AppendUint32(buf, uint32(len(r.Payload)))
	buf = append(buf, r.Payload...)

	if len(buf) != size {
		return nil, fmt.Errorf("%w: wrote %d bytes, size field says %d", errs.ErrSizeMismatch, len(buf), size)
	}
	return buf, nil
}

// Parse reads a ChunkRecord from the start of data, returning the number of
// bytes consumed.
func (r *ChunkRecord) Parse(data []byte) (int, error) {
	if len(data) < chunkRecordFixedHeaderSize {
		return 0, errs.ErrShortRead
	}

	engine := endian.GetLittleEndianEngine()
	sizeTotal := engine.Uint32(data[0:4])
	if int(sizeTotal) > len(data) {
		return 0, errs.ErrShortRead
	}
	if int(sizeTotal) < chunkRecordFixedHeaderSize+4+4 {
		return 0, fmt.Errorf("%w: chunk record smaller than minimum layout", errs.ErrSizeMismatch)
	}

	codecTag := format.Codec(engine.Uint16(data[4:6]))
	dtypeTag := format.Dtype(engine.Uint16(data[6:8]))

	var h [hash.Size256]byte
	copy(h[:], data[8:40])
	flags := format.Flags(engine.Uint64(data[40:48]))

	pos := chunkRecordFixedHeaderSize
	ndim := engine.Uint32(data[pos : pos+4])
	pos += 4
	if ndim > format.MaxShapeDims {
		return 0, fmt.Errorf("%w: %d dims exceeds max %d", errs.ErrInvalidShape, ndim, format.MaxShapeDims)
	}

	need := pos + 8*int(ndim) + 4
	if int(sizeTotal) < need {
		return 0, errs.ErrShortRead
	}

	shape := make([]int64, ndim)
	for i := range shape {
		shape[i] = int64(engine.Uint64(data[pos : pos+8]))
		pos += 8
	}

	payloadLen := engine.Uint32(data[pos : pos+4])
	pos += 4
	if pos+int(payloadLen) > int(sizeTotal) {
		return 0, errs.ErrShortRead
	}

	payload := make([]byte, payloadLen)
	copy(payload, data[pos:pos+int(payloadLen)])
	pos += int(payloadLen)

	if pos != int(sizeTotal) {
		return 0, fmt.Errorf("%w: chunk record trailing bytes", errs.ErrSizeMismatch)
	}

	r.Codec = codecTag
	r.Dtype = dtypeTag
	r.Hash = h
	r.Flags = flags
	r.Shape = shape
	r.Payload = payload
	return int(sizeTotal), nil
}
