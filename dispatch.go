// dispatch.go implements the JSON-over-shared-buffer operation surface a
// host-language collaborator would drive a container through: a small set
// of request/response structs plus a single Dispatch entry point, mirroring
// the StoreChunk/StoreArray/LoadChunks/Inspect/Flush/Ping schema without the
// actual FFI transport (shared-memory buffers, handle tables across a
// language boundary) that a real binding would add on top.
package tenseq

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/tenseq/container"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
)

// ErrorCode is a stable, exit-code-like response code for the dispatch
// surface.
type ErrorCode int32

const (
	CodeSuccess                ErrorCode = 0
	CodeUnknown                ErrorCode = -1
	CodeInvalidJSON            ErrorCode = -2
	CodeInvalidHandle          ErrorCode = -3
	CodeOperationFailed        ErrorCode = -4
	CodeResponseBufferTooSmall ErrorCode = -5
	CodeInvalidArgument        ErrorCode = -6
	CodeResourceUnavailable    ErrorCode = -7
)

// Response is the envelope every Dispatch call returns: {status,
// result|error}.
type Response struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorInfo      `json:"error,omitempty"`
}

// ErrorInfo carries a stable ErrorCode plus a human-readable message.
type ErrorInfo struct {
	Code    ErrorCode `json:"code_value"`
	Message string    `json:"message"`
}

func ok(result any) Response {
	raw, err := json.Marshal(result)
	if err != nil {
		return fail(CodeOperationFailed, err)
	}
	return Response{Status: "Success", Result: raw}
}

func fail(code ErrorCode, err error) Response {
	return Response{Status: "Error", Error: &ErrorInfo{Code: code, Message: err.Error()}}
}

// Handle is the dispatch-layer analogue of the collaborator's opaque
// container handle: it owns exactly one of a Writer or a Reader, matching
// the engine's single-writer/multi-reader discipline.
type Handle struct {
	writer      *container.Writer
	reader      *container.Reader
	backendKind string
}

// NewWriterHandle wraps an already-opened Writer as a dispatch Handle.
func NewWriterHandle(w *container.Writer, backendKind string) *Handle {
	return &Handle{writer: w, backendKind: backendKind}
}

// NewReaderHandle wraps an already-opened Reader as a dispatch Handle.
func NewReaderHandle(r *container.Reader, backendKind string) *Handle {
	return &Handle{reader: r, backendKind: backendKind}
}

// Dispatch decodes payload per op and runs the corresponding operation
// against h, returning a Response envelope. A nil Handle reports
// CodeInvalidHandle, matching the FFI contract where the collaborator is
// expected to pass a handle obtained from a prior Open call.
func Dispatch(h *Handle, op string, payload []byte) Response {
	if h == nil {
		return fail(CodeInvalidHandle, fmt.Errorf("tenseq: nil handle"))
	}

	switch op {
	case "StoreChunk":
		return dispatchStoreChunk(h, payload)
	case "StoreArray":
		return dispatchStoreArray(h, payload)
	case "LoadChunks":
		return dispatchLoadChunks(h, payload)
	case "Inspect":
		return dispatchInspect(h)
	case "GetUserMetadata":
		return dispatchGetUserMetadata(h)
	case "SetUserMetadata":
		return dispatchSetUserMetadata(h, payload)
	case "Flush":
		return dispatchFlush(h)
	case "Ping":
		return dispatchPing(h, payload)
	default:
		return fail(CodeInvalidArgument, fmt.Errorf("tenseq: unknown operation %q", op))
	}
}

type dataSpec struct {
	Dtype string  `json:"dtype"`
	Shape []int64 `json:"shape"`
}

type encodingSpec struct {
	Codec     string `json:"codec"`
	Flags     uint64 `json:"flags,omitempty"`
	ZstdLevel *int   `json:"zstd_level,omitempty"`
}

// validateEncodingSpec rejects per-request overrides dispatch can't honor.
// Chunk flags are computed by Writer.Append from the actual compression
// outcome, and the entropy level is fixed for the whole container at Create
// time (recorded in the internal metadata block so a Reader opened later
// knows how to decompress); neither can vary chunk to chunk. Both fields
// stay in the request schema for wire compatibility with a caller that
// omits them, but a caller that sets either gets a clear rejection instead
// of the value being silently dropped.
func validateEncodingSpec(enc encodingSpec) error {
	if enc.Flags != 0 {
		return fmt.Errorf("tenseq: encoding.flags cannot be overridden per request")
	}
	if enc.ZstdLevel != nil {
		return fmt.Errorf("tenseq: encoding.zstd_level cannot be overridden per request; compression is fixed at container creation")
	}
	return nil
}

type storeChunkRequest struct {
	DataSpec dataSpec     `json:"data_spec"`
	Encoding encodingSpec `json:"encoding"`
	Data     []byte       `json:"data"` // base64 via encoding/json's []byte handling
}

func dispatchStoreChunk(h *Handle, payload []byte) Response {
	if h.writer == nil {
		return fail(CodeInvalidHandle, fmt.Errorf("tenseq: StoreChunk requires a writer handle"))
	}
	var req storeChunkRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fail(CodeInvalidJSON, err)
	}
	dt, err := format.ParseDtype(req.DataSpec.Dtype)
	if err != nil {
		return fail(CodeInvalidArgument, err)
	}
	c, err := format.ParseCodec(req.Encoding.Codec)
	if err != nil {
		return fail(CodeInvalidArgument, err)
	}
	if err := validateEncodingSpec(req.Encoding); err != nil {
		return fail(CodeInvalidArgument, err)
	}
	if err := h.writer.Append(req.DataSpec.Shape, dt, c, req.Data); err != nil {
		return fail(CodeOperationFailed, err)
	}
	return ok(struct{}{})
}

type chunkingStrategy struct {
	Strategy     string `json:"strategy"`
	RowsPerChunk int    `json:"rows_per_chunk"`
}

type storeArrayRequest struct {
	DataSpec         dataSpec         `json:"data_spec"`
	Encoding         encodingSpec     `json:"encoding"`
	ChunkingStrategy chunkingStrategy `json:"chunking_strategy"`
	Data             []byte           `json:"data"`
}

func dispatchStoreArray(h *Handle, payload []byte) Response {
	if h.writer == nil {
		return fail(CodeInvalidHandle, fmt.Errorf("tenseq: StoreArray requires a writer handle"))
	}
	var req storeArrayRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fail(CodeInvalidJSON, err)
	}
	if req.ChunkingStrategy.Strategy != "ByCount" {
		return fail(CodeInvalidArgument, fmt.Errorf("tenseq: unsupported chunking strategy %q", req.ChunkingStrategy.Strategy))
	}
	if len(req.DataSpec.Shape) == 0 {
		return fail(CodeInvalidArgument, fmt.Errorf("tenseq: StoreArray requires a non-empty shape"))
	}
	rowsPerChunk := req.ChunkingStrategy.RowsPerChunk
	if rowsPerChunk <= 0 {
		return fail(CodeInvalidArgument, fmt.Errorf("tenseq: rows_per_chunk must be positive"))
	}

	dt, err := format.ParseDtype(req.DataSpec.Dtype)
	if err != nil {
		return fail(CodeInvalidArgument, err)
	}
	c, err := format.ParseCodec(req.Encoding.Codec)
	if err != nil {
		return fail(CodeInvalidArgument, err)
	}
	if err := validateEncodingSpec(req.Encoding); err != nil {
		return fail(CodeInvalidArgument, err)
	}

	totalRows := req.DataSpec.Shape[0]
	trailing := req.DataSpec.Shape[1:]
	rowStride := dt.Size()
	for _, d := range trailing {
		rowStride *= int(d)
	}
	if rowStride <= 0 {
		return fail(CodeInvalidArgument, fmt.Errorf("tenseq: invalid row stride for shape %v", req.DataSpec.Shape))
	}

	chunksStored := 0
	for rowOffset := int64(0); rowOffset < totalRows; rowOffset += int64(rowsPerChunk) {
		n := int64(rowsPerChunk)
		if rowOffset+n > totalRows {
			n = totalRows - rowOffset
		}
		byteOffset := rowOffset * int64(rowStride)
		byteLen := n * int64(rowStride)
		shape := append([]int64{n}, trailing...)
		if err := h.writer.Append(shape, dt, c, req.Data[byteOffset:byteOffset+byteLen]); err != nil {
			return fail(CodeOperationFailed, err)
		}
		chunksStored++
	}
	return ok(struct {
		ChunksStored int `json:"chunks_stored"`
	}{chunksStored})
}

type selectionSpec struct {
	Kind    string `json:"kind"` // "All" | "Indices" | "Range"
	Indices []int  `json:"indices,omitempty"`
	Start   int    `json:"start,omitempty"`
	Count   int    `json:"count,omitempty"`
}

type loadChunksRequest struct {
	Selection      selectionSpec `json:"selection"`
	CheckChecksums *bool         `json:"check_checksums,omitempty"`
}

// checkChecksums reports whether a request wants hash verification, which
// is the default when the field is omitted.
func (r loadChunksRequest) checkChecksums() bool {
	return r.CheckChecksums == nil || *r.CheckChecksums
}

type loadChunksResult struct {
	BytesWritten int     `json:"bytes_written"`
	Shape        []int64 `json:"shape,omitempty"`
	Data         []byte  `json:"data"`
}

func dispatchLoadChunks(h *Handle, payload []byte) Response {
	if h.reader == nil {
		return fail(CodeInvalidHandle, fmt.Errorf("tenseq: LoadChunks requires a reader handle"))
	}
	var req loadChunksRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fail(CodeInvalidJSON, err)
	}

	indices, err := resolveSelection(req.Selection, h.reader.NumChunks())
	if err != nil {
		return fail(CodeInvalidArgument, err)
	}

	var out []byte
	var uniformDtype format.Dtype
	uniform := true
	var totalLeadingRows int64
	var trailing []int64
	for n, i := range indices {
		chunk, err := h.reader.GetChunkChecked(i, req.checkChecksums())
		if err != nil {
			return fail(CodeOperationFailed, err)
		}
		out = append(out, chunk.Raw...)
		if n == 0 {
			uniformDtype = chunk.Dtype
			trailing = trailingShapeOf(chunk.Shape)
		} else if chunk.Dtype != uniformDtype || !int64SliceEqual(trailingShapeOf(chunk.Shape), trailing) {
			uniform = false
		}
		if len(chunk.Shape) > 0 {
			totalLeadingRows += chunk.Shape[0]
		}
	}

	res := loadChunksResult{BytesWritten: len(out), Data: out}
	if uniform && len(indices) > 0 {
		res.Shape = append([]int64{totalLeadingRows}, trailing...)
	}
	return ok(res)
}

func resolveSelection(sel selectionSpec, numChunks int) ([]int, error) {
	switch sel.Kind {
	case "All":
		indices := make([]int, numChunks)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	case "Indices":
		return sel.Indices, nil
	case "Range":
		if sel.Start < 0 || sel.Count < 0 {
			return nil, fmt.Errorf("tenseq: invalid range selection {start=%d, count=%d}", sel.Start, sel.Count)
		}
		indices := make([]int, sel.Count)
		for i := range indices {
			indices[i] = sel.Start + i
		}
		return indices, nil
	default:
		return nil, fmt.Errorf("tenseq: unknown selection kind %q", sel.Kind)
	}
}

func trailingShapeOf(shape []int64) []int64 {
	if len(shape) <= 1 {
		return nil
	}
	return shape[1:]
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type chunkInfo struct {
	Shape       []int64 `json:"shape"`
	Dtype       string  `json:"dtype"`
	Codec       string  `json:"codec"`
	EncodedSize int     `json:"encoded_size"`
	DecodedSize int     `json:"decoded_size"`
}

type inspectResult struct {
	TotalChunks int         `json:"total_chunks"`
	Chunks      []chunkInfo `json:"chunks"`
}

func dispatchInspect(h *Handle) Response {
	if h.reader == nil {
		return fail(CodeInvalidHandle, fmt.Errorf("tenseq: Inspect requires a reader handle"))
	}
	n := h.reader.NumChunks()
	res := inspectResult{TotalChunks: n, Chunks: make([]chunkInfo, 0, n)}
	for i := 0; i < n; i++ {
		chunk, err := h.reader.GetChunk(i)
		if err != nil {
			return fail(CodeOperationFailed, err)
		}
		res.Chunks = append(res.Chunks, chunkInfo{
			Shape:       chunk.Shape,
			Dtype:       chunk.Dtype.String(),
			Codec:       chunk.Codec.String(),
			EncodedSize: chunk.EncodedSize,
			DecodedSize: len(chunk.Raw),
		})
	}
	return ok(res)
}

func dispatchGetUserMetadata(h *Handle) Response {
	var meta []byte
	switch {
	case h.reader != nil:
		meta = h.reader.UserMetadata()
	case h.writer != nil:
		return fail(CodeOperationFailed, fmt.Errorf("tenseq: GetUserMetadata requires a reader handle"))
	default:
		return fail(CodeInvalidHandle, fmt.Errorf("tenseq: handle has no open backend"))
	}
	return ok(struct {
		UserMetadataBase64 string `json:"user_metadata_base64"`
	}{base64.StdEncoding.EncodeToString(meta)})
}

type setUserMetadataRequest struct {
	UserMetadataBase64 string `json:"user_metadata_base64"`
}

func dispatchSetUserMetadata(h *Handle, payload []byte) Response {
	if h.writer == nil {
		return fail(CodeInvalidHandle, fmt.Errorf("tenseq: SetUserMetadata requires a writer handle"))
	}
	var req setUserMetadataRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fail(CodeInvalidJSON, err)
	}
	meta, err := base64.StdEncoding.DecodeString(req.UserMetadataBase64)
	if err != nil {
		return fail(CodeInvalidArgument, err)
	}
	if err := h.writer.SetUserMetadata(meta); err != nil {
		if errors.Is(err, errs.ErrMetadataLocked) {
			return fail(CodeInvalidArgument, err)
		}
		return fail(CodeOperationFailed, err)
	}
	return ok(struct{}{})
}

func dispatchFlush(h *Handle) Response {
	if h.writer == nil {
		return fail(CodeInvalidHandle, fmt.Errorf("tenseq: Flush requires a writer handle"))
	}
	if err := h.writer.Flush(); err != nil {
		return fail(CodeOperationFailed, err)
	}
	return ok(struct{}{})
}

type pingRequest struct {
	ClientKey string `json:"client_key"`
}

func dispatchPing(h *Handle, payload []byte) Response {
	start := time.Now()
	var req pingRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fail(CodeInvalidJSON, err)
	}
	return ok(struct {
		ClientKey     string `json:"client_key"`
		BackendType   string `json:"backend_type"`
		DurationNanos int64  `json:"duration_nanos"`
	}{req.ClientKey, h.backendKind, time.Since(start).Nanoseconds()})
}
