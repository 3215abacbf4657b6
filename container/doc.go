// Package container implements the on-disk tensor container: a FileHeader
// followed by a chain of fixed-capacity IndexBlocks interleaved with
// ChunkRecords, all written through a storage.Backend.
//
// Writer appends chunks one tensor slice at a time, threading per-stream
// codec.State across calls so consecutive chunks of the same logical
// series delta-encode against each other rather than starting cold.
// Reader walks the chain built by Writer, verifying every hash along the
// way, and decodes a chunk's payload back into raw tensor bytes on demand.
//
// Every offset an IndexBlock stores is absolute, counted from the start of
// the backend's contents. A block's own on-disk position is never stored
// anywhere except in the offset slot of its predecessor (or, for the first
// block, implied by the header's length) and in the Writer/Reader's
// in-memory bookkeeping.
package container
