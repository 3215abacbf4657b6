package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerialize_ScalarRoundTrip(t *testing.T) {
	b := NewMemory()

	require.NoError(t, WriteUint16(b, 0xABCD))
	require.NoError(t, WriteUint32(b, 0xDEADBEEF))
	require.NoError(t, WriteUint64(b, 0x1122334455667788))

	require.NoError(t, b.Rewind())
	u16, err := ReadUint16(b)
	require.NoError(t, err)
	require.EqualValues(t, 0xABCD, u16)

	u32, err := ReadUint32(b)
	require.NoError(t, err)
	require.EqualValues(t, 0xDEADBEEF, u32)

	u64, err := ReadUint64(b)
	require.NoError(t, err)
	require.EqualValues(t, 0x1122334455667788, u64)
}

func TestSerialize_VecRoundTrip(t *testing.T) {
	b := NewMemory()
	vals := []uint64{0, 1, 1000, ^uint64(0)}

	require.NoError(t, WriteVecUint64(b, vals))
	require.NoError(t, b.Rewind())

	got, err := ReadVecUint64(b)
	require.NoError(t, err)
	require.Equal(t, vals, got)
}

func TestSerialize_VecEmpty(t *testing.T) {
	b := NewMemory()
	require.NoError(t, WriteVecUint64(b, nil))
	require.NoError(t, b.Rewind())

	got, err := ReadVecUint64(b)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSerialize_BlobRoundTrip(t *testing.T) {
	b := NewMemory()
	data := []byte("opaque metadata bytes")

	require.NoError(t, WriteBlob(b, data))
	require.NoError(t, b.Rewind())

	got, err := ReadBlob(b)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestSerialize_WriteAtRestoresPosition(t *testing.T) {
	b := NewMemory()
	_, err := b.Write([]byte("0123456789"))
	require.NoError(t, err)

	pos, err := b.Tell()
	require.NoError(t, err)

	require.NoError(t, WriteAt(b, 2, func(b Backend) error {
		return WriteUint16(b, 0xFFFF)
	}))

	after, err := b.Tell()
	require.NoError(t, err)
	require.Equal(t, pos, after)

	require.Equal(t, byte(0xFF), b.Bytes()[2])
	require.Equal(t, byte(0xFF), b.Bytes()[3])
}

func TestSerialize_WriteAtRestoresPositionOnError(t *testing.T) {
	b := NewMemoryFromBytes(make([]byte, 16), true)
	err := b.Seek(4)
	require.NoError(t, err)

	err = WriteAt(b, 0, func(b Backend) error {
		return WriteUint32(b, 1) // fails: read-only backend
	})
	require.Error(t, err)

	pos, terr := b.Tell()
	require.NoError(t, terr)
	require.EqualValues(t, 4, pos)
}

func TestSerialize_WritePODAtUint64(t *testing.T) {
	b := NewMemory()
	_, err := b.Write(make([]byte, 16))
	require.NoError(t, err)

	require.NoError(t, WritePODAtUint64(b, 8, 0x0102030405060708))

	require.NoError(t, b.Rewind())
	_, err = ReadUint64(b) // skip
	require.NoError(t, err)
	got, err := ReadUint64(b)
	require.NoError(t, err)
	require.EqualValues(t, 0x0102030405060708, got)
}
