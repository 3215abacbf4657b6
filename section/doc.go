// Package section implements the on-disk record layout of a container file:
// the file header, the chained index blocks, and the chunk record.
//
// # Layout
//
//	File := FileHeader IndexBlock (ChunkRecord | IndexBlock)*
//
// All index blocks in a file share one capacity N (the number of chunk-offset
// slots per block, fixed at file-creation time and carried in the header's
// internal metadata blob, not in this package). The first index block
// immediately follows the header; every later block is reached by following
// the previous block's trailing next-block offset.
//
// # FileHeader
//
//	u32 magic=0xCDDBEEF
//	u16 version=1
//	u32 internal_len ; internal_len bytes (1-byte blob kind + payload)
//	u32 user_len     ; user_len bytes     (1-byte blob kind + payload)
//
// Both metadata blobs carry a leading kind byte (BlobRaw or BlobEntropy) so a
// reader knows whether to decompress before interpreting the payload;
// compression itself is applied by the caller, not by this package.
//
// # IndexBlock
//
//	u32 size_total
//	u16 block_kind {1=raw, 2=entropy}
//	32 bytes integrity hash (over the logical u64[N+1] offset array)
//	payload
//
// For block_kind=raw, payload is `u32 count=N+1` followed by N+1 little-endian
// u64 slots; slot N is the next-block offset (zero at the chain's tail). For
// block_kind=entropy, payload is `u32 blob_len` followed by blob_len bytes of
// caller-supplied compressed offset data, zero-padded up to the size a raw
// block of the same capacity would occupy — so every index block in a file,
// raw or compressed, occupies an identical number of bytes and the offset of
// the record that follows it is always predictable from capacity alone.
//
// # ChunkRecord
//
//	u32 size_total (includes itself)
//	u16 codec_tag
//	u16 dtype_tag
//	32 bytes integrity hash (over the raw pre-encoding payload bytes)
//	u64 flags
//	u32 ndim ; ndim i64 dims
//	u32 payload_len ; payload_len bytes
//
// This package never emits a zero-valued trailing dimension as a terminator:
// ndim is always the exact logical shape length, since a legitimate
// zero-length dimension is otherwise indistinguishable from one.
//
// All multi-byte integers are little-endian on disk, regardless of host
// byte order; floats inside chunk payloads are IEEE-754 bit patterns handled
// by the codec layer, not by this package.
package section
