package storage

import (
	"github.com/arloliu/tenseq/endian"
	"github.com/arloliu/tenseq/errs"
)

// Serialization primitives layered on top of Backend. Every value on disk
// is little-endian; callers never need their own scratch buffers for the
// scalar cases.

func fullWrite(b Backend, p []byte) error {
	n, err := b.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return errs.ErrShortWrite
	}
	return nil
}

func fullRead(b Backend, p []byte) error {
	n, err := b.Read(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return errs.ErrShortRead
	}
	return nil
}

// WriteUint16 writes a little-endian uint16 at the current position.
func WriteUint16(b Backend, v uint16) error {
	var buf [2]byte
	endian.GetLittleEndianEngine().PutUint16(buf[:], v)
	return fullWrite(b, buf[:])
}

// ReadUint16 reads a little-endian uint16 from the current position.
func ReadUint16(b Backend) (uint16, error) {
	var buf [2]byte
	if err := fullRead(b, buf[:]); err != nil {
		return 0, err
	}
	return endian.GetLittleEndianEngine().Uint16(buf[:]), nil
}

// WriteUint32 writes a little-endian uint32 at the current position.
func WriteUint32(b Backend, v uint32) error {
	var buf [4]byte
	endian.GetLittleEndianEngine().PutUint32(buf[:], v)
	return fullWrite(b, buf[:])
}

// ReadUint32 reads a little-endian uint32 from the current position.
func ReadUint32(b Backend) (uint32, error) {
	var buf [4]byte
	if err := fullRead(b, buf[:]); err != nil {
		return 0, err
	}
	return endian.GetLittleEndianEngine().Uint32(buf[:]), nil
}

// WriteUint64 writes a little-endian uint64 at the current position.
func WriteUint64(b Backend, v uint64) error {
	var buf [8]byte
	endian.GetLittleEndianEngine().PutUint64(buf[:], v)
	return fullWrite(b, buf[:])
}

// ReadUint64 reads a little-endian uint64 from the current position.
func ReadUint64(b Backend) (uint64, error) {
	var buf [8]byte
	if err := fullRead(b, buf[:]); err != nil {
		return 0, err
	}
	return endian.GetLittleEndianEngine().Uint64(buf[:]), nil
}

// WriteVecUint64 writes a u32 element-count prefix followed by vals' raw
// little-endian bytes.
func WriteVecUint64(b Backend, vals []uint64) error {
	if err := WriteUint32(b, uint32(len(vals))); err != nil {
		return err
	}
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		engine.PutUint64(buf[8*i:8*i+8], v)
	}
	return fullWrite(b, buf)
}

// ReadVecUint64 reads a vector previously written by WriteVecUint64.
func ReadVecUint64(b Backend) ([]uint64, error) {
	count, err := ReadUint32(b)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 8*int(count))
	if err := fullRead(b, buf); err != nil {
		return nil, err
	}
	engine := endian.GetLittleEndianEngine()
	vals := make([]uint64, count)
	for i := range vals {
		vals[i] = engine.Uint64(buf[8*i : 8*i+8])
	}
	return vals, nil
}

// WriteBlob writes a u32 length prefix followed by data.
func WriteBlob(b Backend, data []byte) error {
	if err := WriteUint32(b, uint32(len(data))); err != nil {
		return err
	}
	return fullWrite(b, data)
}

// ReadBlob reads a blob previously written by WriteBlob.
func ReadBlob(b Backend) ([]byte, error) {
	length, err := ReadUint32(b)
	if err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if err := fullRead(b, data); err != nil {
		return nil, err
	}
	return data, nil
}

// WriteAt seeks to offset, invokes fn, then restores the previous position
// regardless of fn's outcome. It is the primitive behind every in-place
// patch a writer makes (a sealed index block's hash and next-pointer).
func WriteAt(b Backend, offset int64, fn func(Backend) error) error {
	prev, err := b.Tell()
	if err != nil {
		return err
	}
	if err := b.Seek(offset); err != nil {
		return err
	}
	if ferr := fn(b); ferr != nil {
		_ = b.Seek(prev)
		return ferr
	}
	return b.Seek(prev)
}

// WritePODAtUint64 is the common case of WriteAt: patch a single little-endian
// uint64 at offset, restoring the writer's position afterward.
func WritePODAtUint64(b Backend, offset int64, v uint64) error {
	return WriteAt(b, offset, func(b Backend) error {
		return WriteUint64(b, v)
	})
}
