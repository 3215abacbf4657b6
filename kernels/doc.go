// Package kernels implements the per-element transforms the codec pipelines
// compose: byte-plane shuffle/unshuffle, XOR and arithmetic delta, f32<->f16
// and f32<->bf16 demotion/promotion, and the fused DemoteAndXor1D /
// UnshuffleAndReconstruct operations.
//
// Every kernel is a pure function over plain slices that allocates fresh
// output rather than writing into its input (the *Into variants reuse a
// caller-supplied dst instead), and none hold state across calls except the
// explicit prev-state arguments callers thread themselves.
//
// # Target dispatch
//
// ActiveTarget reports which SIMD target this process would use, probed
// once via cpuid at init. Each kernel has a single scalar Go
// implementation, and pipeline code calls it directly; the probed target
// does not change which code runs.
package kernels
