package codec

import (
	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/kernels"
	"github.com/arloliu/tenseq/workspace"
)

// scratchOrNil returns ws's Primary buffer resized to n bytes, or nil if ws
// is nil, so a pipeline step can ask for scratch space without special-
// casing the no-workspace case itself.
func scratchOrNil(ws *workspace.Workspace, n int) []byte {
	if ws == nil {
		return nil
	}
	return ws.PrimaryScratch(n)
}

// Encode runs the named codec's pipeline forward: raw, dtype-typed tensor
// bytes in, transformed bytes out. state is the stream's running prev
// value; Encode returns the updated state the caller must persist (via
// StateCache or otherwise) and pass back into the stream's next chunk. ws is
// borrowed scratch space for the pipeline's final byte-plane shuffle; it
// may be nil, in which case Encode allocates instead.
func Encode(c format.Codec, dt format.Dtype, shape []int64, raw []byte, state *State, ws *workspace.Workspace) ([]byte, *State, error) {
	if !c.Valid() {
		return nil, nil, newError(Internal, c, "unknown codec tag %d", uint16(c))
	}
	state = state.Clone()

	switch c {
	case format.CodecRaw, format.CodecEntropyOnly:
		return append([]byte(nil), raw...), state, nil

	case format.CodecT1DF32XorShuffle:
		if err := requireDtype(c, dt, format.DtypeF32); err != nil {
			return nil, nil, err
		}
		n, shapeErr := shape1D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		if err := requireByteLen(c, raw, n*4); err != nil {
			return nil, nil, err
		}
		x := bytesToF32(raw)
		bits := f32BitsToU32(x)
		delta, last := kernels.XorDelta(bits, uint32(state.Scalar))
		state.Scalar = uint64(last)
		deltaBytes := u32ToBytes(delta)
		return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 4), state, nil

	case format.CodecT1DF16XorShuffleFromF32:
		if err := requireDtype(c, dt, format.DtypeF32); err != nil {
			return nil, nil, err
		}
		n, shapeErr := shape1D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		if err := requireByteLen(c, raw, n*4); err != nil {
			return nil, nil, err
		}
		x := bytesToF32(raw)
		delta, last := kernels.DemoteAndXor1D(x, uint16(state.Scalar))
		state.Scalar = uint64(last)
		deltaBytes := u16ToBytes(delta)
		return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 2), state, nil

	case format.CodecT1DI64Xor:
		if err := requireDtype(c, dt, format.DtypeI64); err != nil {
			return nil, nil, err
		}
		n, shapeErr := shape1D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		if err := requireByteLen(c, raw, n*8); err != nil {
			return nil, nil, err
		}
		bits, release := i64BitsToU64(bytesToI64(raw))
		delta, last := kernels.XorDelta(bits, state.Scalar)
		release()
		state.Scalar = last
		deltaBytes := u64ToBytes(delta)
		return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 8), state, nil

	case format.CodecT1DI64Delta:
		if err := requireDtype(c, dt, format.DtypeI64); err != nil {
			return nil, nil, err
		}
		n, shapeErr := shape1D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		if err := requireByteLen(c, raw, n*8); err != nil {
			return nil, nil, err
		}
		x := bytesToI64(raw)
		delta, last := kernels.ArithDelta(x, int64(state.Scalar))
		state.Scalar = uint64(last)
		deltaBytes := i64ToBytes(delta)
		return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 8), state, nil

	case format.CodecT2DF32:
		if err := requireDtype(c, dt, format.DtypeF32); err != nil {
			return nil, nil, err
		}
		numRows, numFeatures, shapeErr := shape2D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		if err := requireByteLen(c, raw, numRows*numFeatures*4); err != nil {
			return nil, nil, err
		}
		prevRow := ensureRow(&state.Row, numFeatures)
		bits := f32BitsToU32(bytesToF32(raw))
		delta, newRow := kernels.XorDelta2D(bits, numRows, numFeatures, u64RowToU32(prevRow))
		state.Row = u32RowToU64(newRow)
		deltaBytes := u32ToBytes(delta)
		return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 4), state, nil

	case format.CodecT2DF16FromF32:
		if err := requireDtype(c, dt, format.DtypeF32); err != nil {
			return nil, nil, err
		}
		numRows, numFeatures, shapeErr := shape2D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		if err := requireByteLen(c, raw, numRows*numFeatures*4); err != nil {
			return nil, nil, err
		}
		prevRow := ensureRow(&state.Row, numFeatures)
		bits := kernels.DemoteF32ToF16(bytesToF32(raw))
		delta, newRow := kernels.XorDelta2D(bits, numRows, numFeatures, u64RowToU16(prevRow))
		state.Row = u16RowToU64(newRow)
		deltaBytes := u16ToBytes(delta)
		return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 2), state, nil

	case format.CodecT2DI64:
		if err := requireDtype(c, dt, format.DtypeI64); err != nil {
			return nil, nil, err
		}
		numRows, numFeatures, shapeErr := shape2D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		if err := requireByteLen(c, raw, numRows*numFeatures*8); err != nil {
			return nil, nil, err
		}
		prevRow := ensureRow(&state.Row, numFeatures)
		bits, release := i64BitsToU64(bytesToI64(raw))
		delta, newRow := kernels.XorDelta2D(bits, numRows, numFeatures, prevRow)
		release()
		state.Row = newRow
		deltaBytes := u64ToBytes(delta)
		return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 8), state, nil

	case format.CodecOBOkxF32, format.CodecOBBinanceF32, format.CodecOBGenericF32:
		return encodeOBF32(c, dt, shape, raw, state, ws)

	case format.CodecOBOkxF16FromF32, format.CodecOBBinanceF16FromF32, format.CodecOBGenericF16FromF32:
		return encodeOBF16(c, dt, shape, raw, state, ws)

	default:
		return nil, nil, newError(Internal, c, "pipeline not implemented")
	}
}

// Decode runs the named codec's pipeline backward, recovering dtype-typed
// tensor bytes from a chunk's transformed payload. ws is borrowed scratch
// space for the pipeline's leading unshuffle step; it may be nil, in which
// case Decode allocates instead.
func Decode(c format.Codec, dt format.Dtype, shape []int64, encoded []byte, state *State, ws *workspace.Workspace) ([]byte, *State, error) {
	if !c.Valid() {
		return nil, nil, newError(Internal, c, "unknown codec tag %d", uint16(c))
	}
	state = state.Clone()

	switch c {
	case format.CodecRaw, format.CodecEntropyOnly:
		return append([]byte(nil), encoded...), state, nil

	case format.CodecT1DF32XorShuffle:
		if err := requireDtype(c, dt, format.DtypeF32); err != nil {
			return nil, nil, err
		}
		bits, last := kernels.UnshuffleAndReconstructInto[uint32](scratchOrNil(ws, len(encoded)), encoded, 4, uint32(state.Scalar))
		state.Scalar = uint64(last)
		return f32ToBytes(u32BitsToF32(bits)), state, nil

	case format.CodecT1DF16XorShuffleFromF32:
		if err := requireDtype(c, dt, format.DtypeF32); err != nil {
			return nil, nil, err
		}
		bits, last := kernels.UnshuffleAndReconstructInto[uint16](scratchOrNil(ws, len(encoded)), encoded, 2, uint16(state.Scalar))
		state.Scalar = uint64(last)
		return f32ToBytes(kernels.PromoteF16ToF32(bits)), state, nil

	case format.CodecT1DI64Xor:
		if err := requireDtype(c, dt, format.DtypeI64); err != nil {
			return nil, nil, err
		}
		bits, last := kernels.UnshuffleAndReconstructInto[uint64](scratchOrNil(ws, len(encoded)), encoded, 8, state.Scalar)
		state.Scalar = last
		vals, release := u64BitsToI64(bits)
		out := i64ToBytes(vals)
		release()
		return out, state, nil

	case format.CodecT1DI64Delta:
		if err := requireDtype(c, dt, format.DtypeI64); err != nil {
			return nil, nil, err
		}
		raw := kernels.UnshuffleBytePlanesInto(scratchOrNil(ws, len(encoded)), encoded, 8)
		delta := bytesToI64(raw)
		x, last := kernels.UnArithDelta(delta, int64(state.Scalar))
		state.Scalar = uint64(last)
		return i64ToBytes(x), state, nil

	case format.CodecT2DF32:
		if err := requireDtype(c, dt, format.DtypeF32); err != nil {
			return nil, nil, err
		}
		numRows, numFeatures, shapeErr := shape2D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		prevRow := ensureRow(&state.Row, numFeatures)
		raw := kernels.UnshuffleBytePlanesInto(scratchOrNil(ws, len(encoded)), encoded, 4)
		delta := bytesToU32(raw)
		bits, newRow := kernels.UnXorDelta2D(delta, numRows, numFeatures, u64RowToU32(prevRow))
		state.Row = u32RowToU64(newRow)
		return f32ToBytes(u32BitsToF32(bits)), state, nil

	case format.CodecT2DF16FromF32:
		if err := requireDtype(c, dt, format.DtypeF32); err != nil {
			return nil, nil, err
		}
		numRows, numFeatures, shapeErr := shape2D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		prevRow := ensureRow(&state.Row, numFeatures)
		raw := kernels.UnshuffleBytePlanesInto(scratchOrNil(ws, len(encoded)), encoded, 2)
		delta := bytesToU16(raw)
		bits, newRow := kernels.UnXorDelta2D(delta, numRows, numFeatures, u64RowToU16(prevRow))
		state.Row = u16RowToU64(newRow)
		return f32ToBytes(kernels.PromoteF16ToF32(bits)), state, nil

	case format.CodecT2DI64:
		if err := requireDtype(c, dt, format.DtypeI64); err != nil {
			return nil, nil, err
		}
		numRows, numFeatures, shapeErr := shape2D(c, shape)
		if shapeErr != nil {
			return nil, nil, shapeErr
		}
		prevRow := ensureRow(&state.Row, numFeatures)
		raw := kernels.UnshuffleBytePlanesInto(scratchOrNil(ws, len(encoded)), encoded, 8)
		delta := bytesToU64(raw)
		bits, newRow := kernels.UnXorDelta2D(delta, numRows, numFeatures, prevRow)
		state.Row = newRow
		vals, release := u64BitsToI64(bits)
		out := i64ToBytes(vals)
		release()
		return out, state, nil

	case format.CodecOBOkxF32, format.CodecOBBinanceF32, format.CodecOBGenericF32:
		return decodeOBF32(c, dt, shape, encoded, state, ws)

	case format.CodecOBOkxF16FromF32, format.CodecOBBinanceF16FromF32, format.CodecOBGenericF16FromF32:
		return decodeOBF16(c, dt, shape, encoded, state, ws)

	default:
		return nil, nil, newError(Internal, c, "pipeline not implemented")
	}
}

func requireDtype(c format.Codec, got, want format.Dtype) *Error {
	if got != want {
		return newError(InvalidDtype, c, "expected dtype %s, got %s", want, got)
	}
	return nil
}

func requireByteLen(c format.Codec, raw []byte, want int) *Error {
	if len(raw) != want {
		return newError(InvalidSize, c, "expected %d payload bytes, got %d", want, len(raw))
	}
	return nil
}

func ensureRow(row *[]uint64, numFeatures int) []uint64 {
	if len(*row) != numFeatures {
		*row = make([]uint64, numFeatures)
	}
	return *row
}

func u64RowToU32(row []uint64) []uint32 {
	out := make([]uint32, len(row))
	for i, v := range row {
		out[i] = uint32(v)
	}
	return out
}

func u32RowToU64(row []uint32) []uint64 {
	out := make([]uint64, len(row))
	for i, v := range row {
		out[i] = uint64(v)
	}
	return out
}

func u64RowToU16(row []uint64) []uint16 {
	out := make([]uint16, len(row))
	for i, v := range row {
		out[i] = uint16(v)
	}
	return out
}

func u16RowToU64(row []uint16) []uint64 {
	out := make([]uint64, len(row))
	for i, v := range row {
		out[i] = uint64(v)
	}
	return out
}

func bytesToU16(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = le.Uint16(b[i*2:])
	}
	return out
}

func bytesToU32(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = le.Uint32(b[i*4:])
	}
	return out
}

func bytesToU64(b []byte) []uint64 {
	out := make([]uint64, len(b)/8)
	for i := range out {
		out[i] = le.Uint64(b[i*8:])
	}
	return out
}
