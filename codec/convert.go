package codec

import (
	"math"

	"github.com/arloliu/tenseq/endian"
	"github.com/arloliu/tenseq/internal/pool"
)

var le = endian.GetLittleEndianEngine()

func bytesToF32(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(le.Uint32(b[i*4:]))
	}
	return out
}

func f32ToBytes(x []float32) []byte {
	out := make([]byte, 0, len(x)*4)
	for _, v := range x {
		out = le.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func bytesToI64(b []byte) []int64 {
	out := make([]int64, len(b)/8)
	for i := range out {
		out[i] = int64(le.Uint64(b[i*8:]))
	}
	return out
}

func i64ToBytes(x []int64) []byte {
	out := make([]byte, 0, len(x)*8)
	for _, v := range x {
		out = le.AppendUint64(out, uint64(v))
	}
	return out
}

func u16ToBytes(x []uint16) []byte {
	out := make([]byte, 0, len(x)*2)
	for _, v := range x {
		out = le.AppendUint16(out, v)
	}
	return out
}

func u32ToBytes(x []uint32) []byte {
	out := make([]byte, 0, len(x)*4)
	for _, v := range x {
		out = le.AppendUint32(out, v)
	}
	return out
}

func u64ToBytes(x []uint64) []byte {
	out := make([]byte, 0, len(x)*8)
	for _, v := range x {
		out = le.AppendUint64(out, v)
	}
	return out
}

// f32BitsToU32 reinterprets each float32's raw IEEE-754 bit pattern as a
// uint32, for feeding into the xor-delta kernels (which are defined only
// over unsigned integer widths).
func f32BitsToU32(x []float32) []uint32 {
	out := make([]uint32, len(x))
	for i, v := range x {
		out[i] = math.Float32bits(v)
	}
	return out
}

func u32BitsToF32(x []uint32) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = math.Float32frombits(v)
	}
	return out
}

// i64BitsToU64 reinterprets each int64's raw bit pattern as a uint64, for
// feeding into the xor-delta kernel. The returned slice is pooled scratch;
// the caller must invoke the returned release func (typically via defer)
// once it has finished reading the slice.
func i64BitsToU64(x []int64) ([]uint64, func()) {
	out, release := pool.GetUint64Slice(len(x))
	for i, v := range x {
		out[i] = uint64(v)
	}
	return out, release
}

// u64BitsToI64 is the inverse of i64BitsToU64.
func u64BitsToI64(x []uint64) ([]int64, func()) {
	out, release := pool.GetInt64Slice(len(x))
	for i, v := range x {
		out[i] = int64(v)
	}
	return out, release
}
