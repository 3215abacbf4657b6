package kernels

// ShuffleBytePlanes regroups an array of fixed-width elements from
// element-major order (e0b0 e0b1 ... e0bN e1b0 ...) into byte-plane order
// (e0b0 e1b0 ... eMb0 e0b1 e1b1 ...), clustering each byte position across
// all elements together so a following entropy coder sees long runs of
// similar bytes (e.g. the mostly-zero high bytes of small deltas).
func ShuffleBytePlanes(data []byte, elemSize int) []byte {
	if elemSize <= 1 || len(data) == 0 {
		return append([]byte(nil), data...)
	}
	n := len(data) / elemSize
	out := make([]byte, len(data))
	for i := 0; i < n; i++ {
		for b := 0; b < elemSize; b++ {
			out[b*n+i] = data[i*elemSize+b]
		}
	}
	return out
}

// UnshuffleBytePlanes is the inverse of ShuffleBytePlanes.
func UnshuffleBytePlanes(planes []byte, elemSize int) []byte {
	if elemSize <= 1 || len(planes) == 0 {
		return append([]byte(nil), planes...)
	}
	n := len(planes) / elemSize
	out := make([]byte, len(planes))
	for i := 0; i < n; i++ {
		for b := 0; b < elemSize; b++ {
			out[i*elemSize+b] = planes[b*n+i]
		}
	}
	return out
}

// ShuffleBytePlanesInto is ShuffleBytePlanes but writes into dst when dst
// has enough capacity, instead of allocating a fresh output slice. Pass nil
// to get ShuffleBytePlanes' allocating behavior.
func ShuffleBytePlanesInto(dst, data []byte, elemSize int) []byte {
	if elemSize <= 1 || len(data) == 0 {
		return append(dst[:0], data...)
	}
	n := len(data) / elemSize
	out := growTo(dst, len(data))
	for i := 0; i < n; i++ {
		for b := 0; b < elemSize; b++ {
			out[b*n+i] = data[i*elemSize+b]
		}
	}
	return out
}

// UnshuffleBytePlanesInto is UnshuffleBytePlanes but writes into dst when
// dst has enough capacity. Pass nil to get UnshuffleBytePlanes' allocating
// behavior.
func UnshuffleBytePlanesInto(dst, planes []byte, elemSize int) []byte {
	if elemSize <= 1 || len(planes) == 0 {
		return append(dst[:0], planes...)
	}
	n := len(planes) / elemSize
	out := growTo(dst, len(planes))
	for i := 0; i < n; i++ {
		for b := 0; b < elemSize; b++ {
			out[i*elemSize+b] = planes[b*n+i]
		}
	}
	return out
}

// growTo returns dst resized to length n, reusing its backing array when it
// already has the capacity.
func growTo(dst []byte, n int) []byte {
	if cap(dst) >= n {
		return dst[:n]
	}
	return make([]byte, n)
}
