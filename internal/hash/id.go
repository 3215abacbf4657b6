// Package hash provides the two hashing concerns tenseq needs internally:
// a fast non-cryptographic hash for cache keys, and a streaming
// domain-free digest for on-disk integrity checking.
package hash

import "github.com/cespare/xxhash/v2"

// QuickHash computes a fast, non-cryptographic 64-bit hash of data.
//
// Used only for in-memory cache keys (the codec state cache, keyed by
// codec, dtype and trailing shape) — never for on-disk integrity, where
// Hasher is required.
func QuickHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// QuickHashString is QuickHash for a string, avoiding a []byte copy.
func QuickHashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// ID returns the same 64-bit hash of s as QuickHashString.
func ID(s string) uint64 {
	return xxhash.Sum64String(s)
}
