// Package storage provides the byte-addressed backend a container reads and
// writes through: Read/Write/Seek/Tell/Flush/Rewind/Size over a plain file,
// a memory-mapped file, or an in-memory buffer.
//
// All three implementations satisfy Backend and share its contract: seeking
// past the current end in a writable backend eagerly extends the logical
// size with zero bytes; a read at or past the end returns 0 bytes and a nil
// error; Size reports the logical length, never any over-allocation.
//
// File wraps a buffered *os.File for the common sequential-append path and
// falls back to positional reads/writes (flushing the buffer first) for
// out-of-order access, such as the small in-place patches an index block
// sealing step makes. Mapped grows a memory-mapped region in doubling steps
// capped at 64 MiB, tracking a logical size distinct from the physical
// mapping so a seek past the mapped region doesn't force an immediate remap.
// Memory is a plain growable byte slice, useful for tests and for containers
// that never touch disk.
package storage
