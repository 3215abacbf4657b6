package section

import (
	"fmt"

	"github.com/arloliu/tenseq/endian"
	"github.com/arloliu/tenseq/errs"
)

// BlobKind tags how a FileHeader metadata blob is stored on disk.
type BlobKind uint8

const (
	// BlobRaw means Blob.Data is the logical bytes, uncompressed.
	BlobRaw BlobKind = 1
	// BlobEntropy means Blob.Data is entropy-compressed; the caller is
	// responsible for compressing and decompressing it.
	BlobEntropy BlobKind = 2
)

func (k BlobKind) valid() bool {
	return k == BlobRaw || k == BlobEntropy
}

// Blob is one of the FileHeader's two metadata slots: internal (writer-chosen
// index capacity, at minimum) or user-supplied.
type Blob struct {
	Kind BlobKind
	Data []byte
}

// NewRawBlob wraps data as an uncompressed blob.
func NewRawBlob(data []byte) Blob {
	return Blob{Kind: BlobRaw, Data: data}
}

// FileHeader is the fixed leading record of a container file.
type FileHeader struct {
	InternalMeta Blob
	UserMeta     Blob
}

// Bytes serializes the header, including both metadata blobs, in on-disk
// byte order.
func (h *FileHeader) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, fileHeaderFixedSize+8+len(h.InternalMeta.Data)+len(h.UserMeta.Data))
	buf = engine.AppendUint32(buf, Magic)
	buf = engine.AppendUint16(buf, Version)
	buf = appendBlob(buf, engine, h.InternalMeta)
	buf = appendBlob(buf, engine, h.UserMeta)
	return buf
}

func appendBlob(buf []byte, engine endian.EndianEngine, b Blob) []byte {
	buf = engine.AppendUint32(buf, uint32(len(b.Data)+1))
	buf = append(buf, byte(b.Kind))
	buf = append(buf, b.Data...)
	return buf
}

// Parse reads a FileHeader from the start of data, returning the number of
// bytes consumed. It fails on magic/version mismatch or a truncated blob.
func (h *FileHeader) Parse(data []byte) (int, error) {
	engine := endian.GetLittleEndianEngine()
	if len(data) < fileHeaderFixedSize {
		return 0, errs.ErrShortRead
	}

	magic := engine.Uint32(data[0:4])
	if magic != Magic {
		return 0, fmt.Errorf("%w: got 0x%08X", errs.ErrInvalidMagicNumber, magic)
	}
	version := engine.Uint16(data[4:6])
	if version != Version {
		return 0, fmt.Errorf("%w: got %d", errs.ErrInvalidVersion, version)
	}

	pos := fileHeaderFixedSize
	internal, n, err := parseBlob(data[pos:], engine)
	if err != nil {
		return 0, fmt.Errorf("internal metadata: %w", err)
	}
	pos += n

	user, n, err := parseBlob(data[pos:], engine)
	if err != nil {
		return 0, fmt.Errorf("user metadata: %w", err)
	}
	pos += n

	h.InternalMeta = internal
	h.UserMeta = user
	return pos, nil
}

func parseBlob(data []byte, engine endian.EndianEngine) (Blob, int, error) {
	if len(data) < 4 {
		return Blob{}, 0, errs.ErrShortRead
	}
	length := engine.Uint32(data[0:4])
	if len(data) < 4+int(length) {
		return Blob{}, 0, errs.ErrShortRead
	}
	if length < 1 {
		return Blob{}, 0, errs.ErrShortRead
	}

	kind := BlobKind(data[4])
	if !kind.valid() {
		return Blob{}, 0, fmt.Errorf("%w: blob kind %d", errs.ErrInvalidBlockKind, kind)
	}

	payload := make([]byte, length-1)
	copy(payload, data[5:4+int(length)])
	return Blob{Kind: kind, Data: payload}, 4 + int(length), nil
}
