package section

import (
	"testing"

	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
	"github.com/stretchr/testify/require"
)

func TestChunkRecord_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		shape []int64
	}{
		{"scalar", []int64{}},
		{"1d", []int64{16}},
		{"2d", []int64{32, 64}},
		{"ob shape", []int64{100, 50, 3}},
		{"zero-length dim", []int64{0, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := []byte("encoded tensor payload bytes")
			r := ChunkRecord{
				Codec:   format.CodecT1DF32XorShuffle,
				Dtype:   format.DtypeF32,
				Hash:    HashPayload([]byte("raw pre-encoding bytes")),
				Flags:   format.FlagEntropyCoded,
				Shape:   tt.shape,
				Payload: payload,
			}

			buf, err := r.Bytes()
			require.NoError(t, err)

			var got ChunkRecord
			n, err := got.Parse(buf)
			require.NoError(t, err)
			require.Equal(t, len(buf), n)
			require.Equal(t, r.Codec, got.Codec)
			require.Equal(t, r.Dtype, got.Dtype)
			require.Equal(t, r.Hash, got.Hash)
			require.Equal(t, r.Flags, got.Flags)
			require.Equal(t, r.Shape, got.Shape)
			require.Equal(t, r.Payload, got.Payload)
		})
	}
}

func TestChunkRecord_Bytes_SizeFieldIncludesItself(t *testing.T) {
	r := ChunkRecord{Codec: format.CodecRaw, Dtype: format.DtypeI64, Shape: []int64{4}, Payload: make([]byte, 32)}
	buf, err := r.Bytes()
	require.NoError(t, err)
	require.Equal(t, uint32(len(buf)), leUint32(buf[0:4]))
}

func TestChunkRecord_Bytes_RejectsExcessiveDims(t *testing.T) {
	shape := make([]int64, format.MaxShapeDims+1)
	r := ChunkRecord{Shape: shape}
	_, err := r.Bytes()
	require.ErrorIs(t, err, errs.ErrInvalidShape)
}

func TestChunkRecord_Bytes_RejectsNegativeDim(t *testing.T) {
	r := ChunkRecord{Shape: []int64{4, -1}}
	_, err := r.Bytes()
	require.ErrorIs(t, err, errs.ErrInvalidShape)
}

func TestChunkRecord_Parse_ShortRead(t *testing.T) {
	r := ChunkRecord{Codec: format.CodecRaw, Dtype: format.DtypeF32, Shape: []int64{4}, Payload: []byte{1, 2, 3, 4}}
	buf, err := r.Bytes()
	require.NoError(t, err)

	var got ChunkRecord
	_, err = got.Parse(buf[:len(buf)-1])
	require.ErrorIs(t, err, errs.ErrShortRead)
}

func TestChunkRecord_Parse_RejectsExcessiveNdim(t *testing.T) {
	r := ChunkRecord{Codec: format.CodecRaw, Dtype: format.DtypeF32, Shape: []int64{1}}
	buf, err := r.Bytes()
	require.NoError(t, err)

	leEngine := func(b []byte, v uint32) {
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		b[2] = byte(v >> 16)
		b[3] = byte(v >> 24)
	}
	leEngine(buf[chunkRecordFixedHeaderSize:chunkRecordFixedHeaderSize+4], format.MaxShapeDims+1)

	var got ChunkRecord
	_, err = got.Parse(buf)
	require.ErrorIs(t, err, errs.ErrInvalidShape)
}

func TestChunkRecord_Parse_TrailingBytesIgnored(t *testing.T) {
	r := ChunkRecord{Codec: format.CodecRaw, Dtype: format.DtypeF32, Shape: []int64{2}, Payload: []byte{1, 2, 3, 4}}
	buf, err := r.Bytes()
	require.NoError(t, err)
	buf = append(buf, []byte("next record starts here")...)

	var got ChunkRecord
	n, err := got.Parse(buf)
	require.NoError(t, err)
	require.Less(t, n, len(buf))
	require.Equal(t, r.Payload, got.Payload)
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
