package codec

import (
	"fmt"

	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
)

// ErrorKind discriminates the ways a pipeline can fail.
type ErrorKind int

const (
	InvalidShape ErrorKind = iota
	InvalidDtype
	InvalidSize
	InvalidState
	CompressionFailure
	DecompressionFailure
	Internal
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidShape:
		return "invalid_shape"
	case InvalidDtype:
		return "invalid_dtype"
	case InvalidSize:
		return "invalid_size"
	case InvalidState:
		return "invalid_state"
	case CompressionFailure:
		return "compression_failure"
	case DecompressionFailure:
		return "decompression_failure"
	default:
		return "internal"
	}
}

var sentinelByKind = map[ErrorKind]error{
	InvalidShape:        errs.ErrInvalidShape,
	InvalidDtype:         errs.ErrInvalidDtype,
	InvalidSize:          errs.ErrInvalidSize,
	InvalidState:         errs.ErrInvalidState,
	CompressionFailure:   errs.ErrCompressionFailure,
	DecompressionFailure: errs.ErrDecompressionFailure,
}

// Error is the error type returned by Encode and Decode. Kind is always
// one of the named discriminants; Unwrap exposes the matching errs sentinel
// so callers can errors.Is against either the sentinel or the package-level
// Error type. Internal has no sentinel, so Unwrap returns nil for it.
type Error struct {
	Kind  ErrorKind
	Codec format.Codec
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("tenseq: codec %s: %s: %s", e.Codec, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	if sentinel, ok := sentinelByKind[e.Kind]; ok {
		return sentinel
	}
	return nil
}

func newError(kind ErrorKind, c format.Codec, msg string, args ...any) *Error {
	return &Error{Kind: kind, Codec: c, Msg: fmt.Sprintf(msg, args...)}
}
