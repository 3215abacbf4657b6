package container

import (
	"testing"

	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/storage"
	"github.com/stretchr/testify/require"
)

func TestCreate_AppendAndReadSingleChunk(t *testing.T) {
	backend := storage.NewMemory()
	w, err := Create(backend, []byte("hello"), WithIndexCapacity(4))
	require.NoError(t, err)

	raw := f32ToRaw([]float32{1, 2, 3, 4})
	require.NoError(t, w.Append([]int64{4}, format.DtypeF32, format.CodecT1DF32XorShuffle, raw))
	require.NoError(t, w.Close())

	r, err := Open(backend)
	require.NoError(t, err)
	require.Equal(t, 1, r.NumChunks())
	require.Equal(t, []byte("hello"), r.UserMetadata())

	c, err := r.GetChunk(0)
	require.NoError(t, err)
	require.Equal(t, raw, c.Raw)
	require.Equal(t, []int64{4}, c.Shape)
	require.Equal(t, format.DtypeF32, c.Dtype)
	require.Equal(t, format.CodecT1DF32XorShuffle, c.Codec)
}

func TestAppend_RotatesIndexBlocksAcrossCapacity(t *testing.T) {
	backend := storage.NewMemory()
	w, err := Create(backend, nil, WithIndexCapacity(2))
	require.NoError(t, err)

	const n = 5
	vals := make([][]int64, n)
	for i := 0; i < n; i++ {
		vals[i] = []int64{int64(i * 10), int64(i*10 + 1)}
		require.NoError(t, w.Append([]int64{2}, format.DtypeI64, format.CodecT1DI64Delta, i64ToRaw(vals[i])))
	}
	require.NoError(t, w.Close())

	r, err := Open(backend)
	require.NoError(t, err)
	require.Equal(t, n, r.NumChunks())
	for i := 0; i < n; i++ {
		c, err := r.GetChunk(i)
		require.NoError(t, err)
		require.Equal(t, vals[i], rawToI64(c.Raw))
	}
}

func TestOpenAppend_ResumesDeltaStateAcrossReopen(t *testing.T) {
	backend := storage.NewMemory()
	w, err := Create(backend, nil, WithIndexCapacity(8))
	require.NoError(t, err)

	first := []int64{100, 101, 102}
	require.NoError(t, w.Append([]int64{3}, format.DtypeI64, format.CodecT1DI64Delta, i64ToRaw(first)))
	require.NoError(t, w.Close())

	w2, err := OpenAppend(backend)
	require.NoError(t, err)
	second := []int64{200, 201, 202}
	require.NoError(t, w2.Append([]int64{3}, format.DtypeI64, format.CodecT1DI64Delta, i64ToRaw(second)))
	require.NoError(t, w2.Close())

	r, err := Open(backend)
	require.NoError(t, err)
	require.Equal(t, 2, r.NumChunks())

	c0, err := r.GetChunk(0)
	require.NoError(t, err)
	require.Equal(t, first, rawToI64(c0.Raw))

	c1, err := r.GetChunk(1)
	require.NoError(t, err)
	require.Equal(t, second, rawToI64(c1.Raw))
}

func TestSetUserMetadata_LockedAfterFirstChunkAndBoundedByCapacity(t *testing.T) {
	backend := storage.NewMemory()
	w, err := Create(backend, []byte("01234567"), WithIndexCapacity(4))
	require.NoError(t, err)

	require.NoError(t, w.SetUserMetadata([]byte("short")))
	err = w.SetUserMetadata([]byte("waytoolongforthisslot"))
	require.ErrorIs(t, err, errs.ErrHeaderGrowthRefused)

	require.NoError(t, w.Append([]int64{1}, format.DtypeF32, format.CodecRaw, f32ToRaw([]float32{1})))
	err = w.SetUserMetadata([]byte("nope"))
	require.ErrorIs(t, err, errs.ErrMetadataLocked)
	require.NoError(t, w.Close())
}

func TestWriter_UseAfterCloseReturnsErrWriterClosed(t *testing.T) {
	backend := storage.NewMemory()
	w, err := Create(backend, nil, WithIndexCapacity(2))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	err = w.Append([]int64{1}, format.DtypeF32, format.CodecRaw, f32ToRaw([]float32{1}))
	require.ErrorIs(t, err, errs.ErrWriterClosed)

	err = w.Flush()
	require.ErrorIs(t, err, errs.ErrWriterClosed)

	err = w.SetUserMetadata(nil)
	require.ErrorIs(t, err, errs.ErrWriterClosed)

	err = w.Close()
	require.ErrorIs(t, err, errs.ErrWriterClosed)
}

func TestWithIndexCapacity_RejectsNonPositive(t *testing.T) {
	backend := storage.NewMemory()
	_, err := Create(backend, nil, WithIndexCapacity(0))
	require.ErrorIs(t, err, errs.ErrInvalidContainerConfig)
}

func TestIndexBlockEntropyCompression_StillRoundTrips(t *testing.T) {
	backend := storage.NewMemory()
	w, err := Create(backend, nil, WithIndexCapacity(16), WithIndexCompression(format.CompressionS2))
	require.NoError(t, err)

	const n = 40
	for i := 0; i < n; i++ {
		require.NoError(t, w.Append([]int64{1}, format.DtypeF32, format.CodecRaw, f32ToRaw([]float32{float32(i)})))
	}
	require.NoError(t, w.Close())

	r, err := Open(backend)
	require.NoError(t, err)
	require.Equal(t, n, r.NumChunks())
	for i := 0; i < n; i++ {
		c, err := r.GetChunk(i)
		require.NoError(t, err)
		require.Equal(t, []float32{float32(i)}, rawToF32(c.Raw))
	}
}
