package container

import (
	"math"

	"github.com/arloliu/tenseq/endian"
)

func i64ToRaw(vals []int64) []byte {
	engine := endian.GetLittleEndianEngine()
	out := make([]byte, 8*len(vals))
	for i, v := range vals {
		engine.PutUint64(out[8*i:8*i+8], uint64(v))
	}
	return out
}

func rawToI64(data []byte) []int64 {
	engine := endian.GetLittleEndianEngine()
	out := make([]int64, len(data)/8)
	for i := range out {
		out[i] = int64(engine.Uint64(data[8*i : 8*i+8]))
	}
	return out
}

func f32ToRaw(vals []float32) []byte {
	engine := endian.GetLittleEndianEngine()
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		engine.PutUint32(out[4*i:4*i+4], math.Float32bits(v))
	}
	return out
}

func rawToF32(data []byte) []float32 {
	engine := endian.GetLittleEndianEngine()
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(engine.Uint32(data[4*i : 4*i+4]))
	}
	return out
}
