// Package codec implements the named encode/decode pipelines that compose
// the kernels package's transforms into the fifteen pipelines a chunk's
// codec_tag can name: raw and entropy_only passthroughs, the 1-D and 2-D
// temporal-tensor pipelines, and the order-book snapshot pipelines for the
// OKX/Binance/generic depths.
//
// Encode and Decode operate on a chunk's raw, pre-entropy-coding payload
// bytes; the separate compress package layers general-purpose entropy
// coding on top when a chunk's FlagEntropyCoded bit is set. Pipelines that
// chain state across chunks (every xor-delta and arith-delta variant)
// thread it through an explicit *State argument rather than holding it
// internally, so a single container can interleave multiple independent
// tensor streams as long as each keeps its own State.
package codec
