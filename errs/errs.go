// Package errs collects the sentinel errors returned across tenseq's
// packages. Callers compare with errors.Is; call sites wrap a sentinel with
// fmt.Errorf("%w: ...", errs.ErrX, detail) to attach context.
package errs

import "errors"

// Structural errors: malformed on-disk data.
var (
	ErrInvalidMagicNumber  = errors.New("tenseq: invalid magic number")
	ErrInvalidVersion      = errors.New("tenseq: invalid format version")
	ErrInvalidHeaderSize   = errors.New("tenseq: invalid header size")
	ErrInvalidBlockKind    = errors.New("tenseq: invalid index block kind")
	ErrInvalidShape        = errors.New("tenseq: invalid shape")
	ErrUnknownDtype        = errors.New("tenseq: unknown dtype tag")
	ErrUnknownCodec        = errors.New("tenseq: unknown codec tag")
	ErrSizeMismatch        = errors.New("tenseq: record size field mismatch")
	ErrShortRead           = errors.New("tenseq: short read")
	ErrShortWrite          = errors.New("tenseq: short write")
	ErrCapacityMismatch    = errors.New("tenseq: index block capacity mismatch")
	ErrIndexOutOfRange     = errors.New("tenseq: chunk index out of range")
)

// Integrity errors: verified hash mismatches.
var (
	ErrBlockHashMismatch = errors.New("tenseq: index block hash mismatch")
	ErrChunkHashMismatch = errors.New("tenseq: chunk payload hash mismatch")
)

// I/O errors.
var (
	ErrReadOnly       = errors.New("tenseq: backend is read-only")
	ErrSeekOutOfRange = errors.New("tenseq: seek offset out of range")
	ErrClosed         = errors.New("tenseq: backend is closed")
)

// Codec errors. Richer pipeline-failure discriminants live in package codec
// as Error.Kind; these sentinels back the simpler leaf failures.
var (
	ErrInvalidDtype         = errors.New("tenseq: invalid dtype for codec")
	ErrInvalidSize          = errors.New("tenseq: payload size invalid for dtype/shape")
	ErrInvalidState         = errors.New("tenseq: prev-state length mismatch")
	ErrCompressionFailure   = errors.New("tenseq: compression failure")
	ErrDecompressionFailure = errors.New("tenseq: decompression failure")
)

// Policy errors.
var (
	ErrMetadataLocked         = errors.New("tenseq: user metadata is immutable once chunks exist")
	ErrHeaderGrowthRefused    = errors.New("tenseq: header growth on metadata rewrite is not supported")
	ErrWriterClosed           = errors.New("tenseq: writer is closed")
	ErrPoolExhausted          = errors.New("tenseq: workspace pool burst capacity exceeded")
	ErrInvalidPoolConfig      = errors.New("tenseq: invalid workspace pool configuration")
	ErrInvalidContainerConfig = errors.New("tenseq: invalid container configuration")
)
