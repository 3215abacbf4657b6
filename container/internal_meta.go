package container

import (
	"fmt"

	"github.com/arloliu/tenseq/endian"
	"github.com/arloliu/tenseq/errs"
	"github.com/arloliu/tenseq/format"
)

// internalMeta is the writer-chosen layout policy stored in the FileHeader's
// internal metadata blob: the index block capacity and the two entropy
// coders in effect for the lifetime of the container. It never changes
// after Create, so Reader and a resumed Writer can recover it verbatim.
const internalMetaSize = 6

func encodeInternalMeta(capacity int, chunkCompression, indexCompression format.CompressionType) []byte {
	buf := make([]byte, internalMetaSize)
	engine := endian.GetLittleEndianEngine()
	engine.PutUint32(buf[0:4], uint32(capacity))
	buf[4] = byte(chunkCompression)
	buf[5] = byte(indexCompression)
	return buf
}

func decodeInternalMeta(data []byte) (capacity int, chunkCompression, indexCompression format.CompressionType, err error) {
	if len(data) < internalMetaSize {
		return 0, 0, 0, fmt.Errorf("%w: internal metadata blob too short", errs.ErrInvalidHeaderSize)
	}
	engine := endian.GetLittleEndianEngine()
	capacity = int(engine.Uint32(data[0:4]))
	chunkCompression = format.CompressionType(data[4])
	indexCompression = format.CompressionType(data[5])
	return capacity, chunkCompression, indexCompression, nil
}
