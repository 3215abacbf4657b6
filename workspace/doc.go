// Package workspace provides the bounded pool of scratch buffers the codec
// pipelines borrow from while encoding or decoding a chunk.
//
// A Pool hands out Workspace values up to base_capacity * burst_multiplier
// concurrent holders, blocking further Acquire calls until one is released.
// reserve is informational headroom the caller can check via Pool.Reserve
// before deciding whether to degrade to a synchronous, non-pooled path
// under load; the semaphore itself does not special-case it.
package workspace
