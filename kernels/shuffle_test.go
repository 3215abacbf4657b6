package kernels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShuffleBytePlanes_RoundTrip(t *testing.T) {
	data := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x11, 0x12, 0x13, 0x14,
		0x21, 0x22, 0x23, 0x24,
	}
	shuffled := ShuffleBytePlanes(data, 4)
	require.NotEqual(t, data, shuffled)
	require.Equal(t, data, UnshuffleBytePlanes(shuffled, 4))
}

func TestShuffleBytePlanes_GroupsLikeBytesTogether(t *testing.T) {
	data := []byte{
		0x00, 0xAA,
		0x00, 0xBB,
		0x00, 0xCC,
	}
	shuffled := ShuffleBytePlanes(data, 2)
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0xAA, 0xBB, 0xCC}, shuffled)
}

func TestShuffleBytePlanes_ElemSizeOneIsIdentity(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	require.Equal(t, data, ShuffleBytePlanes(data, 1))
	require.Equal(t, data, UnshuffleBytePlanes(data, 1))
}

func TestShuffleBytePlanes_EmptyInput(t *testing.T) {
	require.Empty(t, ShuffleBytePlanes(nil, 4))
	require.Empty(t, UnshuffleBytePlanes(nil, 4))
}
