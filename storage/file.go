package storage

import (
	"bufio"
	"io"
	"os"

	"github.com/arloliu/tenseq/errs"
)

const fileBufferSize = 64 * 1024

// File is a Backend over a buffered *os.File. Sequential writes at the
// current end of file go through the buffer; any access away from the end
// (a Seek followed by Read or Write) flushes the buffer first and falls
// back to positional ReadAt/WriteAt so buffered and positional access never
// observe a stale view of each other.
type File struct {
	f        *os.File
	bw       *bufio.Writer
	pos      int64
	size     int64
	readOnly bool
	closed   bool
}

var _ Backend = (*File)(nil)

// CreateFile opens path for a new container, truncating any existing
// contents.
func CreateFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{f: f, bw: bufio.NewWriterSize(f, fileBufferSize)}, nil
}

// OpenFileAppend opens an existing path for append, positioned at the
// caller's responsibility to Seek to the resume point.
func OpenFileAppend(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, bw: bufio.NewWriterSize(f, fileBufferSize), size: info.Size()}, nil
}

// OpenFileReadOnly opens path for reading only; all Write calls fail.
func OpenFileReadOnly(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, bw: bufio.NewWriterSize(f, fileBufferSize), size: info.Size(), readOnly: true}, nil
}

func (b *File) Read(dst []byte) (int, error) {
	if b.closed {
		return 0, errs.ErrClosed
	}
	if err := b.bw.Flush(); err != nil {
		return 0, err
	}
	n, err := b.f.ReadAt(dst, b.pos)
	b.pos += int64(n)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (b *File) Write(src []byte) (int, error) {
	if b.closed {
		return 0, errs.ErrClosed
	}
	if b.readOnly {
		return 0, errs.ErrReadOnly
	}

	if b.pos == b.size {
		if b.bw.Buffered() == 0 {
			if _, err := b.f.Seek(b.pos, io.SeekStart); err != nil {
				return 0, err
			}
		}
		n, err := b.bw.Write(src)
		b.pos += int64(n)
		b.size += int64(n)
		return n, err
	}

	if err := b.bw.Flush(); err != nil {
		return 0, err
	}
	n, err := b.f.WriteAt(src, b.pos)
	b.pos += int64(n)
	if b.pos > b.size {
		b.size = b.pos
	}
	return n, err
}

func (b *File) Seek(absOffset int64) error {
	if absOffset < 0 {
		return errs.ErrSeekOutOfRange
	}
	if b.closed {
		return errs.ErrClosed
	}
	if !b.readOnly && absOffset > b.size {
		if err := b.bw.Flush(); err != nil {
			return err
		}
		if err := b.f.Truncate(absOffset); err != nil {
			return err
		}
		b.size = absOffset
	}
	b.pos = absOffset
	return nil
}

func (b *File) Tell() (int64, error) {
	if b.closed {
		return 0, errs.ErrClosed
	}
	return b.pos, nil
}

func (b *File) Flush() error {
	if b.closed {
		return errs.ErrClosed
	}
	if err := b.bw.Flush(); err != nil {
		return err
	}
	return b.f.Sync()
}

func (b *File) Rewind() error {
	return b.Seek(0)
}

func (b *File) Size() (int64, error) {
	if b.closed {
		return 0, errs.ErrClosed
	}
	return b.size, nil
}

func (b *File) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	_ = b.bw.Flush()
	return b.f.Close()
}
