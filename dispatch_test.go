package tenseq

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/arloliu/tenseq/container"
	"github.com/arloliu/tenseq/storage"
	"github.com/stretchr/testify/require"
)

func TestDispatch_StoreChunkThenInspectViaReaderHandle(t *testing.T) {
	backend := storage.NewMemory()
	w, err := container.Create(backend, nil)
	require.NoError(t, err)
	wh := NewWriterHandle(w, "memory")

	payload, err := json.Marshal(map[string]any{
		"data_spec": map[string]any{"dtype": "f32", "shape": []int64{3}},
		"encoding":  map[string]any{"codec": "raw"},
		"data":      f32ToRaw([]float32{1, 2, 3}),
	})
	require.NoError(t, err)

	resp := Dispatch(wh, "StoreChunk", payload)
	require.Equal(t, "Success", resp.Status)
	require.NoError(t, w.Close())

	r, err := container.Open(storage.NewMemoryFromBytes(backend.Bytes(), true))
	require.NoError(t, err)
	defer r.Close()
	rh := NewReaderHandle(r, "memory")

	resp = Dispatch(rh, "Inspect", nil)
	require.Equal(t, "Success", resp.Status)

	var result inspectResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Equal(t, 1, result.TotalChunks)
	require.Equal(t, []int64{3}, result.Chunks[0].Shape)
	require.Equal(t, "f32", result.Chunks[0].Dtype)
	require.Equal(t, "raw", result.Chunks[0].Codec)
}

func TestDispatch_InvalidHandleReportsCodeInvalidHandle(t *testing.T) {
	resp := Dispatch(nil, "Ping", []byte(`{}`))
	require.Equal(t, "Error", resp.Status)
	require.Equal(t, CodeInvalidHandle, resp.Error.Code)
}

func TestDispatch_UnknownOperationReportsCodeInvalidArgument(t *testing.T) {
	w, err := container.Create(storage.NewMemory(), nil)
	require.NoError(t, err)
	wh := NewWriterHandle(w, "memory")

	resp := Dispatch(wh, "Bogus", []byte(`{}`))
	require.Equal(t, "Error", resp.Status)
	require.Equal(t, CodeInvalidArgument, resp.Error.Code)
	require.NoError(t, w.Close())
}

func TestDispatch_PingEchoesClientKeyAndBackendType(t *testing.T) {
	w, err := container.Create(storage.NewMemory(), nil)
	require.NoError(t, err)
	wh := NewWriterHandle(w, "memory")

	payload, err := json.Marshal(map[string]string{"client_key": "abc123"})
	require.NoError(t, err)
	resp := Dispatch(wh, "Ping", payload)
	require.Equal(t, "Success", resp.Status)

	var result struct {
		ClientKey   string `json:"client_key"`
		BackendType string `json:"backend_type"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Equal(t, "abc123", result.ClientKey)
	require.Equal(t, "memory", result.BackendType)
	require.NoError(t, w.Close())
}

func TestDispatch_GetSetUserMetadataRoundTrip(t *testing.T) {
	backend := storage.NewMemory()
	w, err := container.Create(backend, nil)
	require.NoError(t, err)
	wh := NewWriterHandle(w, "memory")

	setPayload, err := json.Marshal(map[string]string{
		"user_metadata_base64": base64.StdEncoding.EncodeToString([]byte("hello")),
	})
	require.NoError(t, err)
	resp := Dispatch(wh, "SetUserMetadata", setPayload)
	require.Equal(t, "Success", resp.Status)
	require.NoError(t, w.Close())

	r, err := container.Open(storage.NewMemoryFromBytes(backend.Bytes(), true))
	require.NoError(t, err)
	defer r.Close()
	rh := NewReaderHandle(r, "memory")

	resp = Dispatch(rh, "GetUserMetadata", nil)
	require.Equal(t, "Success", resp.Status)
	var result struct {
		UserMetadataBase64 string `json:"user_metadata_base64"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	decoded, err := base64.StdEncoding.DecodeString(result.UserMetadataBase64)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), decoded)
}

func TestDispatch_StoreArrayChunksAndLoadChunksAllConcatenates(t *testing.T) {
	backend := storage.NewMemory()
	w, err := container.Create(backend, nil, container.WithIndexCapacity(8))
	require.NoError(t, err)
	wh := NewWriterHandle(w, "memory")

	samples := []float32{1, 2, 3, 4, 5, 6}
	payload, err := json.Marshal(map[string]any{
		"data_spec":         map[string]any{"dtype": "f32", "shape": []int64{6}},
		"encoding":          map[string]any{"codec": "raw"},
		"chunking_strategy": map[string]any{"strategy": "ByCount", "rows_per_chunk": 2},
		"data":              f32ToRaw(samples),
	})
	require.NoError(t, err)

	resp := Dispatch(wh, "StoreArray", payload)
	require.Equal(t, "Success", resp.Status)
	require.NoError(t, w.Close())

	r, err := container.Open(storage.NewMemoryFromBytes(backend.Bytes(), true))
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 3, r.NumChunks())
	rh := NewReaderHandle(r, "memory")

	loadPayload, err := json.Marshal(map[string]any{
		"selection": map[string]any{"kind": "All"},
	})
	require.NoError(t, err)
	resp = Dispatch(rh, "LoadChunks", loadPayload)
	require.Equal(t, "Success", resp.Status)

	var result loadChunksResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Equal(t, samples, rawToF32(result.Data))
	require.Equal(t, []int64{6}, result.Shape)
}

func TestDispatch_LoadChunksRequiresReaderHandle(t *testing.T) {
	w, err := container.Create(storage.NewMemory(), nil)
	require.NoError(t, err)
	wh := NewWriterHandle(w, "memory")

	payload, _ := json.Marshal(map[string]any{"selection": map[string]any{"kind": "All"}})
	resp := Dispatch(wh, "LoadChunks", payload)
	require.Equal(t, "Error", resp.Status)
	require.Equal(t, CodeInvalidHandle, resp.Error.Code)
	require.NoError(t, w.Close())
}

func TestDispatch_StoreChunkWithUnknownDtypeReportsCodeInvalidArgument(t *testing.T) {
	w, err := container.Create(storage.NewMemory(), nil)
	require.NoError(t, err)
	wh := NewWriterHandle(w, "memory")

	payload, err := json.Marshal(map[string]any{
		"data_spec": map[string]any{"dtype": "bogus", "shape": []int64{3}},
		"encoding":  map[string]any{"codec": "raw"},
		"data":      []byte{1, 2, 3},
	})
	require.NoError(t, err)
	resp := Dispatch(wh, "StoreChunk", payload)
	require.Equal(t, "Error", resp.Status)
	require.Equal(t, CodeInvalidArgument, resp.Error.Code)
	require.NoError(t, w.Close())
}
