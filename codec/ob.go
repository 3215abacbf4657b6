package codec

import (
	"github.com/arloliu/tenseq/format"
	"github.com/arloliu/tenseq/kernels"
	"github.com/arloliu/tenseq/workspace"
)

func obConstraints(c format.Codec) (wantDepth, wantFields int) {
	switch c {
	case format.CodecOBOkxF32, format.CodecOBOkxF16FromF32:
		return okxDepth, okxFields
	case format.CodecOBBinanceF32, format.CodecOBBinanceF16FromF32:
		return binanceDepth, binanceFields
	default:
		return 0, 0
	}
}

func encodeOBF32(c format.Codec, dt format.Dtype, shape []int64, raw []byte, state *State, ws *workspace.Workspace) ([]byte, *State, error) {
	if err := requireDtype(c, dt, format.DtypeF32); err != nil {
		return nil, nil, err
	}
	wantDepth, wantFields := obConstraints(c)
	numSnapshots, depth, fields, shapeErr := shapeOB(c, shape, wantDepth, wantFields)
	if shapeErr != nil {
		return nil, nil, shapeErr
	}
	snapshotLen := depth * fields
	if err := requireByteLen(c, raw, numSnapshots*snapshotLen*4); err != nil {
		return nil, nil, err
	}

	prevSnapshot := ensureRow(&state.Snapshot, snapshotLen)
	bits := f32BitsToU32(bytesToF32(raw))
	delta, newSnapshot := kernels.XorDeltaSnapshots(bits, numSnapshots, snapshotLen, u64RowToU32(prevSnapshot))
	state.Snapshot = u32RowToU64(newSnapshot)
	deltaBytes := u32ToBytes(delta)
	return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 4), state, nil
}

func decodeOBF32(c format.Codec, dt format.Dtype, shape []int64, encoded []byte, state *State, ws *workspace.Workspace) ([]byte, *State, error) {
	if err := requireDtype(c, dt, format.DtypeF32); err != nil {
		return nil, nil, err
	}
	wantDepth, wantFields := obConstraints(c)
	numSnapshots, depth, fields, shapeErr := shapeOB(c, shape, wantDepth, wantFields)
	if shapeErr != nil {
		return nil, nil, shapeErr
	}
	snapshotLen := depth * fields

	prevSnapshot := ensureRow(&state.Snapshot, snapshotLen)
	raw := kernels.UnshuffleBytePlanesInto(scratchOrNil(ws, len(encoded)), encoded, 4)
	delta := bytesToU32(raw)
	bits, newSnapshot := kernels.UnXorDeltaSnapshots(delta, numSnapshots, snapshotLen, u64RowToU32(prevSnapshot))
	state.Snapshot = u32RowToU64(newSnapshot)
	return f32ToBytes(u32BitsToF32(bits)), state, nil
}

func encodeOBF16(c format.Codec, dt format.Dtype, shape []int64, raw []byte, state *State, ws *workspace.Workspace) ([]byte, *State, error) {
	if err := requireDtype(c, dt, format.DtypeF32); err != nil {
		return nil, nil, err
	}
	wantDepth, wantFields := obConstraints(c)
	numSnapshots, depth, fields, shapeErr := shapeOB(c, shape, wantDepth, wantFields)
	if shapeErr != nil {
		return nil, nil, shapeErr
	}
	snapshotLen := depth * fields
	if err := requireByteLen(c, raw, numSnapshots*snapshotLen*4); err != nil {
		return nil, nil, err
	}

	prevSnapshot := ensureRow(&state.Snapshot, snapshotLen)
	bits := kernels.DemoteF32ToF16(bytesToF32(raw))
	delta, newSnapshot := kernels.XorDeltaSnapshots(bits, numSnapshots, snapshotLen, u64RowToU16(prevSnapshot))
	state.Snapshot = u16RowToU64(newSnapshot)
	deltaBytes := u16ToBytes(delta)
	return kernels.ShuffleBytePlanesInto(scratchOrNil(ws, len(deltaBytes)), deltaBytes, 2), state, nil
}

func decodeOBF16(c format.Codec, dt format.Dtype, shape []int64, encoded []byte, state *State, ws *workspace.Workspace) ([]byte, *State, error) {
	if err := requireDtype(c, dt, format.DtypeF32); err != nil {
		return nil, nil, err
	}
	wantDepth, wantFields := obConstraints(c)
	numSnapshots, depth, fields, shapeErr := shapeOB(c, shape, wantDepth, wantFields)
	if shapeErr != nil {
		return nil, nil, shapeErr
	}
	snapshotLen := depth * fields

	prevSnapshot := ensureRow(&state.Snapshot, snapshotLen)
	raw := kernels.UnshuffleBytePlanesInto(scratchOrNil(ws, len(encoded)), encoded, 2)
	delta := bytesToU16(raw)
	bits, newSnapshot := kernels.UnXorDeltaSnapshots(delta, numSnapshots, snapshotLen, u64RowToU16(prevSnapshot))
	state.Snapshot = u16RowToU64(newSnapshot)
	return f32ToBytes(kernels.PromoteF16ToF32(bits)), state, nil
}
