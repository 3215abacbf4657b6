package section

import (
	"testing"

	"github.com/arloliu/tenseq/errs"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		internal Blob
		user     Blob
	}{
		{"empty blobs", NewRawBlob(nil), NewRawBlob(nil)},
		{"raw metadata", NewRawBlob([]byte("capacity=128")), NewRawBlob([]byte("metadata"))},
		{"entropy user blob", NewRawBlob([]byte("capacity=64")), Blob{Kind: BlobEntropy, Data: []byte{0xde, 0xad, 0xbe, 0xef}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := FileHeader{InternalMeta: tt.internal, UserMeta: tt.user}
			buf := h.Bytes()

			var got FileHeader
			n, err := got.Parse(buf)
			require.NoError(t, err)
			require.Equal(t, len(buf), n)
			require.Equal(t, tt.internal.Kind, got.InternalMeta.Kind)
			require.Equal(t, tt.internal.Data, got.InternalMeta.Data)
			require.Equal(t, tt.user.Kind, got.UserMeta.Kind)
			require.Equal(t, tt.user.Data, got.UserMeta.Data)
		})
	}
}

func TestFileHeader_Parse_InvalidMagic(t *testing.T) {
	h := FileHeader{InternalMeta: NewRawBlob(nil), UserMeta: NewRawBlob(nil)}
	buf := h.Bytes()
	buf[0] ^= 0xFF

	var got FileHeader
	_, err := got.Parse(buf)
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
}

func TestFileHeader_Parse_InvalidVersion(t *testing.T) {
	h := FileHeader{InternalMeta: NewRawBlob(nil), UserMeta: NewRawBlob(nil)}
	buf := h.Bytes()
	buf[4] = 0xFF

	var got FileHeader
	_, err := got.Parse(buf)
	require.ErrorIs(t, err, errs.ErrInvalidVersion)
}

func TestFileHeader_Parse_ShortRead(t *testing.T) {
	h := FileHeader{InternalMeta: NewRawBlob([]byte("hello")), UserMeta: NewRawBlob(nil)}
	buf := h.Bytes()

	var got FileHeader
	_, err := got.Parse(buf[:len(buf)-1])
	require.ErrorIs(t, err, errs.ErrShortRead)
}

func TestFileHeader_Parse_TrailingBytesIgnored(t *testing.T) {
	h := FileHeader{InternalMeta: NewRawBlob([]byte("x")), UserMeta: NewRawBlob([]byte("y"))}
	buf := append(h.Bytes(), []byte("trailing chunk data")...)

	var got FileHeader
	n, err := got.Parse(buf)
	require.NoError(t, err)
	require.Less(t, n, len(buf))
	require.Equal(t, []byte("x"), got.InternalMeta.Data)
	require.Equal(t, []byte("y"), got.UserMeta.Data)
}
