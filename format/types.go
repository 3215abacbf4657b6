// Package format defines the small enums shared by the section, codec, and
// kernels packages: tensor element types, named codec pipelines, and the
// on-disk flags bitfield. Its only internal dependency is errs, for the
// string-to-enum parse errors the JSON dispatch layer needs.
package format

import (
	"fmt"

	"github.com/arloliu/tenseq/errs"
)

// Dtype identifies the element type of a tensor payload.
type Dtype uint16

const (
	DtypeF16 Dtype = iota + 1
	DtypeBF16
	DtypeF32
	DtypeF64
	DtypeI8
	DtypeU8
	DtypeI16
	DtypeU16
	DtypeI32
	DtypeU32
	DtypeI64
	DtypeU64
)

// Size returns the fixed byte size of a single element of this dtype.
func (d Dtype) Size() int {
	switch d {
	case DtypeF16, DtypeBF16, DtypeI16, DtypeU16:
		return 2
	case DtypeF32, DtypeI32, DtypeU32:
		return 4
	case DtypeF64, DtypeI64, DtypeU64:
		return 8
	case DtypeI8, DtypeU8:
		return 1
	default:
		return 0
	}
}

// IsFloat reports whether the dtype is one of the floating-point kinds.
func (d Dtype) IsFloat() bool {
	switch d {
	case DtypeF16, DtypeBF16, DtypeF32, DtypeF64:
		return true
	default:
		return false
	}
}

// Valid reports whether d is a known, defined dtype.
func (d Dtype) Valid() bool {
	return d >= DtypeF16 && d <= DtypeU64
}

func (d Dtype) String() string {
	switch d {
	case DtypeF16:
		return "f16"
	case DtypeBF16:
		return "bf16"
	case DtypeF32:
		return "f32"
	case DtypeF64:
		return "f64"
	case DtypeI8:
		return "i8"
	case DtypeU8:
		return "u8"
	case DtypeI16:
		return "i16"
	case DtypeU16:
		return "u16"
	case DtypeI32:
		return "i32"
	case DtypeU32:
		return "u32"
	case DtypeI64:
		return "i64"
	case DtypeU64:
		return "u64"
	default:
		return fmt.Sprintf("Dtype(%d)", uint16(d))
	}
}

// ParseDtype parses the lowercase token produced by Dtype.String (e.g.
// "f32", "i64") back into a Dtype. Used by the JSON dispatch surface, where
// dtypes travel as strings rather than their on-disk numeric tag.
func ParseDtype(s string) (Dtype, error) {
	for d := DtypeF16; d <= DtypeU64; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownDtype, s)
}

// Codec identifies a named encode/decode pipeline.
type Codec uint16

const (
	CodecRaw Codec = iota + 1
	CodecEntropyOnly
	CodecT1DF32XorShuffle
	CodecT1DF16XorShuffleFromF32
	CodecT1DI64Xor
	CodecT1DI64Delta
	CodecT2DF32
	CodecT2DF16FromF32
	CodecT2DI64
	CodecOBOkxF32
	CodecOBOkxF16FromF32
	CodecOBBinanceF32
	CodecOBBinanceF16FromF32
	CodecOBGenericF32
	CodecOBGenericF16FromF32
)

// Valid reports whether c is a known, defined codec.
func (c Codec) Valid() bool {
	return c >= CodecRaw && c <= CodecOBGenericF16FromF32
}

// IsLossy reports whether decoding this codec can only approximately recover
// the original bytes (the f16-demoting pipelines).
func (c Codec) IsLossy() bool {
	switch c {
	case CodecT1DF16XorShuffleFromF32, CodecT2DF16FromF32,
		CodecOBOkxF16FromF32, CodecOBBinanceF16FromF32, CodecOBGenericF16FromF32:
		return true
	default:
		return false
	}
}

// IsOrderBook reports whether c is one of the order-book snapshot codecs.
func (c Codec) IsOrderBook() bool {
	switch c {
	case CodecOBOkxF32, CodecOBOkxF16FromF32, CodecOBBinanceF32,
		CodecOBBinanceF16FromF32, CodecOBGenericF32, CodecOBGenericF16FromF32:
		return true
	default:
		return false
	}
}

func (c Codec) String() string {
	switch c {
	case CodecRaw:
		return "raw"
	case CodecEntropyOnly:
		return "entropy_only"
	case CodecT1DF32XorShuffle:
		return "t1d_f32_xor_shuffle"
	case CodecT1DF16XorShuffleFromF32:
		return "t1d_f16_xor_shuffle_from_f32"
	case CodecT1DI64Xor:
		return "t1d_i64_xor"
	case CodecT1DI64Delta:
		return "t1d_i64_delta"
	case CodecT2DF32:
		return "t2d_f32"
	case CodecT2DF16FromF32:
		return "t2d_f16_from_f32"
	case CodecT2DI64:
		return "t2d_i64"
	case CodecOBOkxF32:
		return "ob_okx_f32"
	case CodecOBOkxF16FromF32:
		return "ob_okx_f16_from_f32"
	case CodecOBBinanceF32:
		return "ob_binance_f32"
	case CodecOBBinanceF16FromF32:
		return "ob_binance_f16_from_f32"
	case CodecOBGenericF32:
		return "ob_generic_f32"
	case CodecOBGenericF16FromF32:
		return "ob_generic_f16_from_f32"
	default:
		return fmt.Sprintf("Codec(%d)", uint16(c))
	}
}

// ParseCodec parses the lowercase token produced by Codec.String (e.g.
// "t1d_i64_delta") back into a Codec. Used by the JSON dispatch surface.
func ParseCodec(s string) (Codec, error) {
	for c := CodecRaw; c <= CodecOBGenericF16FromF32; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownCodec, s)
}

// CompressionType identifies the entropy-coding algorithm layered on top of a
// codec pipeline's output when FlagEntropyCoded is set.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota
	CompressionZstd
	CompressionS2
	CompressionLZ4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
}

// Flags is the per-chunk bitfield.
type Flags uint64

const (
	// FlagEntropyCoded marks that the chunk payload is entropy-compressed.
	FlagEntropyCoded Flags = 1 << 0
	// FlagBigEndian marks that multi-byte fields in the payload were produced
	// on a big-endian host. Unset means little-endian (the default).
	FlagBigEndian Flags = 1 << 1

	// Downcast-width markers. Reserved bits, defined but never set by any
	// codec in this repository — informational only.
	FlagDowncast8   Flags = 1 << 2
	FlagDowncast16  Flags = 1 << 3
	FlagDowncast32  Flags = 1 << 4
	FlagDowncast64  Flags = 1 << 5
	FlagDowncast128 Flags = 1 << 6
)

// Has reports whether all bits in mask are set.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// MaxShapeDims is the maximum logical tensor dimensionality.
const MaxShapeDims = 32
