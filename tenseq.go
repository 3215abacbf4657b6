// Package tenseq provides a single-writer, multi-reader binary container
// format for append-only tensor data, tuned for financial market-data
// series: order books, trade ticks, and other fixed-shape numeric tensors
// sampled over time.
//
// A container is a flat append-only file: a small header carrying
// writer-chosen policy and caller metadata, followed by a chain of
// fixed-capacity index blocks interleaved with the chunk records they
// point to. Each chunk is one tensor slice, optionally run through a named
// codec pipeline (XOR-delta, byte-plane shuffle, f32->f16 demotion, or an
// order-book-specific variant of these) and optionally entropy-compressed,
// with both the chunk and the index chain integrity-hashed so corruption is
// caught on read rather than silently trusted.
//
// # Basic usage
//
// Writing a container:
//
//	w, err := tenseq.CreateFile("ticks.tsq", nil, container.WithIndexCapacity(4096))
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	shape := []int64{256} // 256 f32 samples in this chunk
//	raw := floatsToLEBytes(samples)
//	if err := w.Append(shape, format.DtypeF32, format.CodecT1DF32XorShuffle, raw); err != nil {
//	    return err
//	}
//
// Reading it back:
//
//	r, err := tenseq.OpenFileReader("ticks.tsq")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for i := 0; i < r.NumChunks(); i++ {
//	    chunk, err := r.GetChunk(i)
//	    if err != nil {
//	        return err
//	    }
//	    process(chunk.Raw)
//	}
//
// # Package structure
//
// This package is a thin convenience facade over container, storage,
// codec, and format. Use those directly for anything this facade doesn't
// cover — an in-memory-mapped backend, a custom entropy coder, or direct
// access to a single codec pipeline outside a container.
package tenseq

import (
	"github.com/arloliu/tenseq/container"
	"github.com/arloliu/tenseq/storage"
)

// CreateFile creates a new container at path, truncating any existing
// contents, and returns a Writer ready for Append calls.
func CreateFile(path string, userMeta []byte, opts ...container.Option) (*container.Writer, error) {
	backend, err := storage.CreateFile(path)
	if err != nil {
		return nil, err
	}
	w, err := container.Create(backend, userMeta, opts...)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return w, nil
}

// OpenFileAppend opens an existing container at path for continued
// appends, replaying its chunks to rebuild per-stream codec state.
func OpenFileAppend(path string) (*container.Writer, error) {
	backend, err := storage.OpenFileAppend(path)
	if err != nil {
		return nil, err
	}
	w, err := container.OpenAppend(backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return w, nil
}

// OpenFileReader opens an existing container at path for reading.
func OpenFileReader(path string) (*container.Reader, error) {
	backend, err := storage.OpenFileReadOnly(path)
	if err != nil {
		return nil, err
	}
	r, err := container.Open(backend)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return r, nil
}

// CreateMemory creates a new container on a fresh in-memory backend, useful
// for tests. The returned Writer does not expose that backend, so the
// container's bytes cannot be taken out of it; container.Create over a
// storage.Memory the caller keeps gives access to them via Memory.Bytes.
func CreateMemory(userMeta []byte, opts ...container.Option) (*container.Writer, error) {
	return container.Create(storage.NewMemory(), userMeta, opts...)
}

// OpenMemoryReader opens a container held in a byte slice, such as the
// Bytes of a storage.Memory a Writer has written to.
func OpenMemoryReader(data []byte) (*container.Reader, error) {
	return container.Open(storage.NewMemoryFromBytes(data, true))
}
