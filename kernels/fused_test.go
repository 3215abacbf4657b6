package kernels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDemoteAndXor1D_MatchesUnfusedPipeline(t *testing.T) {
	x := []float32{1.5, 1.5, 2.25, -3.0, 0}

	fused, fusedPrev := DemoteAndXor1D(x, 0)

	unfusedBits := DemoteF32ToF16(x)
	unfused, unfusedPrev := XorDelta(unfusedBits, 0)

	require.Equal(t, unfused, fused)
	require.Equal(t, unfusedPrev, fusedPrev)
}

func TestUnshuffleAndReconstruct_RoundTrip(t *testing.T) {
	x := []uint32{5, 9, 9, 12, 4096}
	delta, lastEnc := XorDelta(x, 0)

	raw := make([]byte, 0, len(delta)*4)
	for _, d := range delta {
		raw = append(raw,
			byte(d), byte(d>>8), byte(d>>16), byte(d>>24))
	}
	shuffled := ShuffleBytePlanes(raw, 4)

	got, lastDec := UnshuffleAndReconstruct[uint32](shuffled, 4, 0)
	require.Equal(t, x, got)
	require.Equal(t, lastEnc, lastDec)
}

func TestUnshuffleAndReconstruct_ChainsAcrossChunkBoundary(t *testing.T) {
	x1 := []uint16{1, 2, 3}
	x2 := []uint16{4, 5, 6}

	d1, prev := XorDelta(x1, 0)
	d2, _ := XorDelta(x2, prev)

	shuffle16 := func(delta []uint16) []byte {
		raw := make([]byte, 0, len(delta)*2)
		for _, d := range delta {
			raw = append(raw, byte(d), byte(d>>8))
		}
		return ShuffleBytePlanes(raw, 2)
	}

	got1, chainedPrev := UnshuffleAndReconstruct[uint16](shuffle16(d1), 2, 0)
	got2, _ := UnshuffleAndReconstruct[uint16](shuffle16(d2), 2, chainedPrev)

	require.Equal(t, x1, got1)
	require.Equal(t, x2, got2)
}
