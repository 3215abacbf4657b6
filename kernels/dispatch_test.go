package kernels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActiveTarget_ReturnsAValidTarget(t *testing.T) {
	target := ActiveTarget()
	require.Contains(t, []Target{TargetGeneric, TargetAVX2, TargetNEON}, target)
	require.NotEmpty(t, target.String())
}

func TestTarget_String(t *testing.T) {
	require.Equal(t, "generic", TargetGeneric.String())
	require.Equal(t, "avx2", TargetAVX2.String())
	require.Equal(t, "neon", TargetNEON.String())
}
