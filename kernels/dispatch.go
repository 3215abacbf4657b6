package kernels

import "github.com/klauspost/cpuid/v2"

// Target identifies a SIMD instruction-set target a kernel could dispatch
// to. Every target currently resolves to the same scalar implementation.
type Target int

const (
	TargetGeneric Target = iota
	TargetAVX2
	TargetNEON
)

func (t Target) String() string {
	switch t {
	case TargetAVX2:
		return "avx2"
	case TargetNEON:
		return "neon"
	default:
		return "generic"
	}
}

var activeTarget = probeTarget()

func probeTarget() Target {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX2):
		return TargetAVX2
	case cpuid.CPU.Supports(cpuid.ASIMD):
		return TargetNEON
	default:
		return TargetGeneric
	}
}

// ActiveTarget returns the SIMD target selected once at process init.
func ActiveTarget() Target {
	return activeTarget
}
