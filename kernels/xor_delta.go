package kernels

// xorable is any unsigned integer width a chunk element's raw bits fit in.
type xorable interface {
	~uint16 | ~uint32 | ~uint64
}

// XorDelta computes out[i] = x[i] xor x[i-1], with x[-1] supplied as prev.
// It returns the transformed sequence and the last raw element, which
// callers chain as prev into the next call over the same logical stream.
func XorDelta[T xorable](x []T, prev T) ([]T, T) {
	out := make([]T, len(x))
	running := prev
	for i, v := range x {
		out[i] = v ^ running
		running = v
	}
	return out, running
}

// UnXorDelta is the inverse of XorDelta.
func UnXorDelta[T xorable](delta []T, prev T) ([]T, T) {
	out := make([]T, len(delta))
	running := prev
	for i, d := range delta {
		v := d ^ running
		out[i] = v
		running = v
	}
	return out, running
}

// XorDelta2D runs XorDelta independently per feature column of a
// num_rows x num_features Structure-of-Arrays tensor (feature-major: all
// rows of feature 0, then feature 1, ...). prevRow holds one starting
// element per feature.
func XorDelta2D[T xorable](data []T, numRows, numFeatures int, prevRow []T) ([]T, []T) {
	out := make([]T, len(data))
	newPrev := make([]T, numFeatures)
	for feat := range numFeatures {
		start := feat * numRows
		col := data[start : start+numRows]
		outCol, last := XorDelta(col, prevRow[feat])
		copy(out[start:start+numRows], outCol)
		newPrev[feat] = last
	}
	return out, newPrev
}

// UnXorDelta2D is the inverse of XorDelta2D.
func UnXorDelta2D[T xorable](delta []T, numRows, numFeatures int, prevRow []T) ([]T, []T) {
	out := make([]T, len(delta))
	newPrev := make([]T, numFeatures)
	for feat := range numFeatures {
		start := feat * numRows
		col := delta[start : start+numRows]
		outCol, last := UnXorDelta(col, prevRow[feat])
		copy(out[start:start+numRows], outCol)
		newPrev[feat] = last
	}
	return out, newPrev
}

// XorDeltaSnapshots XORs whole snapshots against each other (order-book
// Array-of-Structures layout: num_snapshots x snapshotLen). prevSnapshot
// supplies the starting element for every lane.
func XorDeltaSnapshots[T xorable](data []T, numSnapshots, snapshotLen int, prevSnapshot []T) ([]T, []T) {
	out := make([]T, len(data))
	running := make([]T, snapshotLen)
	copy(running, prevSnapshot)

	for s := range numSnapshots {
		start := s * snapshotLen
		snap := data[start : start+snapshotLen]
		for i, v := range snap {
			out[start+i] = v ^ running[i]
			running[i] = v
		}
	}
	return out, running
}

// UnXorDeltaSnapshots is the inverse of XorDeltaSnapshots.
func UnXorDeltaSnapshots[T xorable](delta []T, numSnapshots, snapshotLen int, prevSnapshot []T) ([]T, []T) {
	out := make([]T, len(delta))
	running := make([]T, snapshotLen)
	copy(running, prevSnapshot)

	for s := range numSnapshots {
		start := s * snapshotLen
		snap := delta[start : start+snapshotLen]
		for i, d := range snap {
			v := d ^ running[i]
			out[start+i] = v
			running[i] = v
		}
	}
	return out, running
}
