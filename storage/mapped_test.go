package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openMappedRW(t *testing.T, path string) *Mapped {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	m, err := NewMapped(f, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMapped_WriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.tseq")
	m := openMappedRW(t, path)

	_, err := m.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, m.Flush())

	require.NoError(t, m.Rewind())
	dst := make([]byte, 11)
	n, err := m.Read(dst)
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, "hello world", string(dst))
}

func TestMapped_GrowthAcrossRemap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.tseq")
	m := openMappedRW(t, path)

	// cross several growth steps from the initial 4KiB mapping
	payload := make([]byte, 20000)
	for i := range payload {
		payload[i] = byte(i)
	}
	_, err := m.Write(payload)
	require.NoError(t, err)

	require.NoError(t, m.Rewind())
	got := make([]byte, len(payload))
	n, err := m.Read(got)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, payload, got)
}

func TestMapped_SeekPastMappedRegionDefersRemap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.tseq")
	m := openMappedRW(t, path)

	require.NoError(t, m.Seek(1_000_000))
	size, err := m.Size()
	require.NoError(t, err)
	require.EqualValues(t, 1_000_000, size)
	require.Less(t, m.mappedLen, int64(1_000_000), "seek alone must not force a remap")

	// a subsequent write forces the region to actually grow
	_, err = m.Write([]byte("Z"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, m.mappedLen, int64(1_000_001))
}

func TestMapped_ReadOfUnmappedGapReturnsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.tseq")
	m := openMappedRW(t, path)

	require.NoError(t, m.Seek(100))
	buf := make([]byte, 10)
	n, err := m.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 10, n)
	require.Equal(t, make([]byte, 10), buf)
}

func TestMapped_ReadAtOrPastEndReturnsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "container.tseq")
	m := openMappedRW(t, path)

	_, err := m.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, m.Seek(100))
	n, err := m.Read(make([]byte, 4))
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestMapped_BackendParityWithMemory(t *testing.T) {
	writes := [][]byte{
		[]byte("one"),
		[]byte("two-longer-segment"),
		make([]byte, 5000),
	}

	mem := NewMemory()
	for _, w := range writes {
		_, err := mem.Write(w)
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "container.tseq")
	mapped := openMappedRW(t, path)
	for _, w := range writes {
		_, err := mapped.Write(w)
		require.NoError(t, err)
	}

	memSize, err := mem.Size()
	require.NoError(t, err)
	mappedSize, err := mapped.Size()
	require.NoError(t, err)
	require.Equal(t, memSize, mappedSize)

	require.NoError(t, mem.Rewind())
	require.NoError(t, mapped.Rewind())
	memBuf := make([]byte, memSize)
	mappedBuf := make([]byte, mappedSize)
	_, err = mem.Read(memBuf)
	require.NoError(t, err)
	_, err = mapped.Read(mappedBuf)
	require.NoError(t, err)
	require.Equal(t, memBuf, mappedBuf)
}
