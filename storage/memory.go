package storage

import "github.com/arloliu/tenseq/errs"

// Memory is a Backend over a growable in-memory buffer. Writes past the
// current end zero-fill the gap and extend the buffer.
type Memory struct {
	buf      []byte
	pos      int64
	readOnly bool
	closed   bool
}

var _ Backend = (*Memory)(nil)

// NewMemory returns an empty, writable Memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryFromBytes returns a Memory backend seeded with a copy of data.
// A read-only backend rejects all Write and size-extending Seek calls.
func NewMemoryFromBytes(data []byte, readOnly bool) *Memory {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Memory{buf: buf, readOnly: readOnly}
}

func (m *Memory) Read(dst []byte) (int, error) {
	if m.closed {
		return 0, errs.ErrClosed
	}
	if m.pos >= int64(len(m.buf)) {
		return 0, nil
	}
	n := copy(dst, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *Memory) Write(src []byte) (int, error) {
	if m.closed {
		return 0, errs.ErrClosed
	}
	if m.readOnly {
		return 0, errs.ErrReadOnly
	}

	end := m.pos + int64(len(src))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], src)
	m.pos = end
	return len(src), nil
}

func (m *Memory) Seek(absOffset int64) error {
	if absOffset < 0 {
		return errs.ErrSeekOutOfRange
	}
	if m.closed {
		return errs.ErrClosed
	}
	if !m.readOnly && absOffset > int64(len(m.buf)) {
		grown := make([]byte, absOffset)
		copy(grown, m.buf)
		m.buf = grown
	}
	m.pos = absOffset
	return nil
}

func (m *Memory) Tell() (int64, error) {
	if m.closed {
		return 0, errs.ErrClosed
	}
	return m.pos, nil
}

func (m *Memory) Flush() error {
	if m.closed {
		return errs.ErrClosed
	}
	return nil
}

func (m *Memory) Rewind() error {
	return m.Seek(0)
}

func (m *Memory) Size() (int64, error) {
	if m.closed {
		return 0, errs.ErrClosed
	}
	return int64(len(m.buf)), nil
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

// Bytes returns the backend's current contents. The returned slice aliases
// internal storage and must not be retained past further writes.
func (m *Memory) Bytes() []byte {
	return m.buf
}
