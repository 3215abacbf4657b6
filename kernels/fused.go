package kernels

import (
	"github.com/arloliu/tenseq/endian"
	"github.com/x448/float16"
)

// DemoteAndXor1D demotes a float32 stream to binary16 and XOR-deltas it
// against prev in a single pass, avoiding a separate materialized f16
// array between the two steps.
func DemoteAndXor1D(x []float32, prev uint16) ([]uint16, uint16) {
	out := make([]uint16, len(x))
	running := prev
	for i, v := range x {
		bits := uint16(float16.Fromfloat32(v))
		out[i] = bits ^ running
		running = bits
	}
	return out, running
}

// UnshuffleAndReconstruct undoes a byte-plane shuffle and then recovers the
// original raw element values from their XOR deltas in one pass: an
// inclusive prefix-XOR scan seeded by prev, so a caller can chain
// consecutive chunks of the same logical stream without losing state at
// the chunk boundary.
func UnshuffleAndReconstruct[T xorable](shuffled []byte, elemSize int, prev T) ([]T, T) {
	return UnshuffleAndReconstructInto[T](nil, shuffled, elemSize, prev)
}

// UnshuffleAndReconstructInto is UnshuffleAndReconstruct but reuses dst for
// the intermediate unshuffled byte plane when it has enough capacity,
// instead of allocating a fresh one. Pass nil for UnshuffleAndReconstruct's
// allocating behavior.
func UnshuffleAndReconstructInto[T xorable](dst, shuffled []byte, elemSize int, prev T) ([]T, T) {
	raw := UnshuffleBytePlanesInto(dst, shuffled, elemSize)
	n := len(raw) / elemSize
	out := make([]T, n)
	running := prev
	eng := endian.GetLittleEndianEngine()

	for i := range n {
		b := raw[i*elemSize : (i+1)*elemSize]
		var d T
		switch elemSize {
		case 2:
			d = T(eng.Uint16(b))
		case 4:
			d = T(eng.Uint32(b))
		case 8:
			d = T(eng.Uint64(b))
		}
		v := d ^ running
		out[i] = v
		running = v
	}
	return out, running
}
