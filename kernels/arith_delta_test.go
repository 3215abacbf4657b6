package kernels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithDelta_RoundTrip(t *testing.T) {
	x := []int64{100, 103, 99, 99, -50, 0}
	delta, lastEnc := ArithDelta(x, 0)
	got, lastDec := UnArithDelta(delta, 0)

	require.Equal(t, x, got)
	require.Equal(t, x[len(x)-1], lastEnc)
	require.Equal(t, x[len(x)-1], lastDec)
}

func TestArithDelta_ChainsAcrossCalls(t *testing.T) {
	x1 := []int64{10, 20, 15}
	x2 := []int64{15, 25, 5}

	d1, prev := ArithDelta(x1, 0)
	d2, prev := ArithDelta(x2, prev)

	got1, prev := UnArithDelta(d1, 0)
	got2, _ := UnArithDelta(d2, prev)

	require.Equal(t, x1, got1)
	require.Equal(t, x2, got2)
}

func TestArithDelta_EmptyInput(t *testing.T) {
	out, prev := ArithDelta(nil, 42)
	require.Empty(t, out)
	require.EqualValues(t, 42, prev)
}

func TestArithDelta_SmallMagnitudesForSmoothSeries(t *testing.T) {
	x := []int64{1000, 1001, 1002, 1003, 1004}
	delta, _ := ArithDelta(x, 999)
	for _, d := range delta {
		require.Equal(t, int64(1), d)
	}
}
