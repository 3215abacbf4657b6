package kernels

import (
	"math"

	"github.com/x448/float16"
)

// DemoteF32ToF16 converts each float32 to its nearest IEEE-754 binary16
// representation, round-to-nearest-even, returning the raw 16-bit patterns.
func DemoteF32ToF16(x []float32) []uint16 {
	out := make([]uint16, len(x))
	for i, v := range x {
		out[i] = uint16(float16.Fromfloat32(v))
	}
	return out
}

// PromoteF16ToF32 is the inverse of DemoteF32ToF16. It is lossy in the
// other direction only in the sense that values outside binary16 range were
// already clamped/rounded by DemoteF32ToF16; this direction is exact.
func PromoteF16ToF32(bits []uint16) []float32 {
	out := make([]float32, len(bits))
	for i, b := range bits {
		out[i] = float16.Float16(b).Float32()
	}
	return out
}

// DemoteF32ToBF16 truncates each float32's mantissa to produce a bfloat16
// bit pattern: the top 16 bits of the IEEE-754 binary32 layout, rounded to
// nearest-even against the discarded low 16 bits.
func DemoteF32ToBF16(x []float32) []uint16 {
	out := make([]uint16, len(x))
	for i, v := range x {
		bits := math.Float32bits(v)
		// round to nearest-even: add the rounding bias before truncating.
		rounding := uint32(0x7fff) + ((bits >> 16) & 1)
		out[i] = uint16((bits + rounding) >> 16)
	}
	return out
}

// PromoteBF16ToF32 widens a bfloat16 bit pattern back to float32 by
// shifting it into the high 16 bits and zero-filling the mantissa tail.
func PromoteBF16ToF32(bits []uint16) []float32 {
	out := make([]float32, len(bits))
	for i, b := range bits {
		out[i] = math.Float32frombits(uint32(b) << 16)
	}
	return out
}
