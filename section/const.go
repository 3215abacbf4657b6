package section

// Magic is the fixed 32-bit word opening every container file.
const Magic uint32 = 0xCDDBEEF

// Version is the format version this package reads and writes.
const Version uint16 = 1

// fileHeaderFixedSize is magic(4) + version(2).
const fileHeaderFixedSize = 4 + 2

// indexBlockFixedHeaderSize is size_total(4) + block_kind(2) + hash(32).
const indexBlockFixedHeaderSize = 4 + 2 + 32

// chunkRecordFixedHeaderSize is size_total(4) + codec_tag(2) + dtype_tag(2) +
// hash(32) + flags(8).
const chunkRecordFixedHeaderSize = 4 + 2 + 2 + 32 + 8
