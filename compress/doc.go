// Package compress provides the entropy-coding layer applied on top of a
// codec pipeline's output bytes.
//
// # Overview
//
// A chunk's payload goes through two stages before it is written to disk:
//
//  1. Codec pipeline: exploits structure in the tensor data itself (XOR
//     delta, byte-plane shuffle, f32->f16 demotion)
//  2. Entropy coding: a general-purpose byte-level compressor applied to the
//     pipeline's output, enabled per-chunk via FlagEntropyCoded
//
// This package implements the second stage, offering:
//   - None: no compression (fastest, largest)
//   - Zstd: best compression ratio, moderate speed
//   - S2: balanced compression and speed
//   - LZ4: fastest decompression, moderate compression ratio
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Algorithm selection guide
//
// | Workload             | Recommended | Reason                         |
// |----------------------|-------------|---------------------------------|
// | Storage-constrained  | Zstd        | Best compression ratio          |
// | Streaming ingestion  | S2          | Balanced speed and compression  |
// | Query-heavy reads    | LZ4         | Fastest decompression           |
// | CPU-constrained      | None        | No compression overhead         |
//
// # Zstd build variants
//
// zstd_cgo.go (build tag cgo) uses valyala/gozstd, a cgo binding to the
// reference C library; zstd_pure.go (build tag !cgo) falls back to
// klauspost/compress/zstd, a pure-Go implementation, for CGO_ENABLED=0
// cross-compiles. Both satisfy the same ZstdCompressor type.
//
// # Thread safety
//
// All codec implementations are safe for concurrent use.
package compress
