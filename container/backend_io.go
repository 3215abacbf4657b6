package container

import (
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/storage"
)

// writeFull writes data at the backend's current position, failing with
// errs.ErrShortWrite on a partial write.
func writeFull(b storage.Backend, data []byte) error {
	n, err := b.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return errs.ErrShortWrite
	}
	return nil
}

// writeFullAt patches data at offset, restoring the backend's prior
// position afterward. Used for every in-place rewrite of a fixed-size
// index block or header metadata slot.
func writeFullAt(b storage.Backend, offset int64, data []byte) error {
	return storage.WriteAt(b, offset, func(b storage.Backend) error {
		return writeFull(b, data)
	})
}

// readAll reads a backend's entire contents into memory. Used only at
// OpenAppend, once, to walk an existing chain and replay its chunks; a
// Reader never loads chunk payloads this way.
func readAll(b storage.Backend) ([]byte, error) {
	size, err := b.Size()
	if err != nil {
		return nil, err
	}
	if err := b.Rewind(); err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	var got int64
	for got < size {
		n, err := b.Read(buf[got:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		got += int64(n)
	}
	return buf[:got], nil
}
