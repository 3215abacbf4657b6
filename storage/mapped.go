package storage

import (
	"os"

	"github.com/arloliu/tenseq/errs"
	"github.com/edsrzf/mmap-go"
)

// mappedMaxGrowthStep bounds how much a Mapped backend's physical mapping
// grows in a single remap.
const mappedMaxGrowthStep = 64 * 1024 * 1024

const mappedInitialGrowth = 4096

// Mapped is a Backend over a memory-mapped file. It tracks a logical size
// distinct from the physical mapping's length: seeking past the mapped
// region only extends the logical size, deferring the remap until the next
// Write actually needs the space.
type Mapped struct {
	f         *os.File
	mm        mmap.MMap
	mappedLen int64
	size      int64
	pos       int64
	readOnly  bool
	closed    bool
}

var _ Backend = (*Mapped)(nil)

// NewMapped maps f, which must already be open for reading (and writing,
// unless readOnly).
func NewMapped(f *os.File, readOnly bool) (*Mapped, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	m := &Mapped{f: f, size: info.Size(), readOnly: readOnly}
	if info.Size() > 0 {
		if err := m.remap(info.Size()); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Mapped) remap(length int64) error {
	if m.mm != nil {
		if err := m.mm.Unmap(); err != nil {
			return err
		}
		m.mm = nil
	}
	if length == 0 {
		m.mappedLen = 0
		return nil
	}

	prot := mmap.RDWR
	if m.readOnly {
		prot = mmap.RDONLY
	}
	mapped, err := mmap.MapRegion(m.f, int(length), prot, 0, 0)
	if err != nil {
		return err
	}
	m.mm = mapped
	m.mappedLen = length
	return nil
}

// ensureMapped grows the physical mapping (doubling, capped at
// mappedMaxGrowthStep per step) until it covers at least length bytes.
func (m *Mapped) ensureMapped(length int64) error {
	if length <= m.mappedLen {
		return nil
	}

	newLen := m.mappedLen
	if newLen == 0 {
		newLen = mappedInitialGrowth
	}
	for newLen < length {
		step := newLen
		if step > mappedMaxGrowthStep {
			step = mappedMaxGrowthStep
		}
		newLen += step
	}

	if err := m.f.Truncate(newLen); err != nil {
		return err
	}
	return m.remap(newLen)
}

func (m *Mapped) Read(dst []byte) (int, error) {
	if m.closed {
		return 0, errs.ErrClosed
	}
	if m.pos >= m.size {
		return 0, nil
	}

	avail := m.size - m.pos
	n := int64(len(dst))
	if n > avail {
		n = avail
	}

	for i := range dst[:n] {
		dst[i] = 0
	}
	physAvail := m.mappedLen - m.pos
	if physAvail > 0 {
		copyN := n
		if copyN > physAvail {
			copyN = physAvail
		}
		copy(dst[:copyN], m.mm[m.pos:m.pos+copyN])
	}

	m.pos += n
	return int(n), nil
}

func (m *Mapped) Write(src []byte) (int, error) {
	if m.closed {
		return 0, errs.ErrClosed
	}
	if m.readOnly {
		return 0, errs.ErrReadOnly
	}

	end := m.pos + int64(len(src))
	if err := m.ensureMapped(end); err != nil {
		return 0, err
	}
	copy(m.mm[m.pos:end], src)
	if end > m.size {
		m.size = end
	}
	m.pos = end
	return len(src), nil
}

func (m *Mapped) Seek(absOffset int64) error {
	if absOffset < 0 {
		return errs.ErrSeekOutOfRange
	}
	if m.closed {
		return errs.ErrClosed
	}
	if !m.readOnly && absOffset > m.size {
		m.size = absOffset
	}
	m.pos = absOffset
	return nil
}

func (m *Mapped) Tell() (int64, error) {
	if m.closed {
		return 0, errs.ErrClosed
	}
	return m.pos, nil
}

func (m *Mapped) Flush() error {
	if m.closed {
		return errs.ErrClosed
	}
	if m.mm != nil {
		return m.mm.Flush()
	}
	return nil
}

func (m *Mapped) Rewind() error {
	return m.Seek(0)
}

func (m *Mapped) Size() (int64, error) {
	if m.closed {
		return 0, errs.ErrClosed
	}
	return m.size, nil
}

func (m *Mapped) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if m.mm != nil {
		if err := m.mm.Unmap(); err != nil {
			return err
		}
	}
	return m.f.Close()
}
