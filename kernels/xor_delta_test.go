package kernels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXorDelta_RoundTrip_U32(t *testing.T) {
	x := []uint32{10, 11, 9, 9, 1000, 0}
	delta, lastEnc := XorDelta(x, 0)
	got, lastDec := UnXorDelta(delta, 0)
	require.Equal(t, x, got)
	require.Equal(t, x[len(x)-1], lastEnc)
	require.Equal(t, x[len(x)-1], lastDec)
}

func TestXorDelta_ChainsAcrossCalls(t *testing.T) {
	x1 := []uint64{1, 2, 3}
	x2 := []uint64{4, 5, 6}

	d1, prev := XorDelta(x1, 0)
	d2, prev := XorDelta(x2, prev)

	got1, prev := UnXorDelta(d1, 0)
	got2, _ := UnXorDelta(d2, prev)

	require.Equal(t, x1, got1)
	require.Equal(t, x2, got2)
}

func TestXorDelta_EmptyInput(t *testing.T) {
	out, prev := XorDelta([]uint16(nil), 7)
	require.Empty(t, out)
	require.EqualValues(t, 7, prev)
}

func TestXorDelta2D_PerFeatureIndependence(t *testing.T) {
	const numRows, numFeatures = 4, 3
	data := make([]uint32, numRows*numFeatures)
	for feat := 0; feat < numFeatures; feat++ {
		for row := 0; row < numRows; row++ {
			data[feat*numRows+row] = uint32(feat*100 + row)
		}
	}

	prevRow := make([]uint32, numFeatures)
	delta, newPrev := XorDelta2D(data, numRows, numFeatures, prevRow)
	got, finalPrev := UnXorDelta2D(delta, numRows, numFeatures, prevRow)

	require.Equal(t, data, got)
	require.Equal(t, newPrev, finalPrev)
}

func TestXorDeltaSnapshots_RoundTrip(t *testing.T) {
	const numSnapshots, snapshotLen = 5, 6
	data := make([]uint64, numSnapshots*snapshotLen)
	for i := range data {
		data[i] = uint64(i * 7)
	}

	prevSnapshot := make([]uint64, snapshotLen)
	delta, newPrev := XorDeltaSnapshots(data, numSnapshots, snapshotLen, prevSnapshot)
	got, finalPrev := UnXorDeltaSnapshots(delta, numSnapshots, snapshotLen, prevSnapshot)

	require.Equal(t, data, got)
	require.Equal(t, newPrev, finalPrev)
}

func TestXorDelta_DetectsSingleBitCorruption(t *testing.T) {
	x := []uint32{1, 2, 3, 4, 5}
	delta, _ := XorDelta(x, 0)
	delta[2] ^= 1

	got, _ := UnXorDelta(delta, 0)
	require.NotEqual(t, x, got)
}
