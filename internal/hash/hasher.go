package hash

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Size256 and Size128 are the digest sizes, in bytes, produced by Hasher.
const (
	Size256 = 32
	Size128 = 16
)

// Hasher is a stateful, domain-free (unkeyed) streaming hash accumulator.
//
// Callers repeatedly call Write with contiguous byte spans, then call
// Sum256 or Sum128 to finalize. Sum128 truncates the 256-bit digest rather
// than using a distinct algorithm.
//
// A Hasher must not be reused across independent hash computations without
// calling Reset first.
type Hasher struct {
	h *blake3.Hasher
}

// NewHasher creates a new streaming Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: blake3.New()}
}

// Write feeds bytes into the running hash. It never returns an error.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// WriteUint64s hashes the little-endian byte representation of each element
// of vals, regardless of host endianness. This is the contract used for
// stored-data hashing: the digest is reproducible across hosts for the same
// logical values.
func (h *Hasher) WriteUint64s(vals []uint64) {
	var buf [8]byte
	for _, v := range vals {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		buf[4] = byte(v >> 32)
		buf[5] = byte(v >> 40)
		buf[6] = byte(v >> 48)
		buf[7] = byte(v >> 56)
		_, _ = h.h.Write(buf[:])
	}
}

// WriteUint64sNative hashes vals using the host's native in-memory byte
// layout. Index-block hashes use this form: index integrity is only ever
// checked on the writing host, so native layout is acceptable and avoids a
// byte-swap pass on every append.
func (h *Hasher) WriteUint64sNative(vals []uint64) {
	var buf [8]byte
	for _, v := range vals {
		binary.NativeEndian.PutUint64(buf[:], v)
		_, _ = h.h.Write(buf[:])
	}
}

// Sum256 finalizes and returns the 256-bit digest. The Hasher remains valid
// for further Write calls afterward (blake3 finalization is non-destructive).
func (h *Hasher) Sum256() [Size256]byte {
	var out [Size256]byte
	h.h.Sum(out[:0])
	return out
}

// Sum128 finalizes and returns the low 128 bits of the 256-bit digest.
func (h *Hasher) Sum128() [Size128]byte {
	full := h.Sum256()
	var out [Size128]byte
	copy(out[:], full[:Size128])
	return out
}

// Reset clears accumulated state so the Hasher can be reused.
func (h *Hasher) Reset() {
	h.h.Reset()
}

// Sum256Bytes is a convenience one-shot hash of a single byte span.
func Sum256Bytes(data []byte) [Size256]byte {
	h := NewHasher()
	_, _ = h.Write(data)
	return h.Sum256()
}
