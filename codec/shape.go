package codec

import "github.com/arloliu/tenseq/format"

// Order-book exchange depth/field constants: the OKX and Binance pipelines
// validate against a fixed snapshot shape; the generic pipelines accept any
// depth/fields the caller declares.
const (
	okxDepth      = 50
	okxFields     = 3
	binanceDepth  = 256
	binanceFields = 8
)

func shape1D(c format.Codec, shape []int64) (n int, err *Error) {
	if len(shape) != 1 || shape[0] < 0 {
		return 0, newError(InvalidShape, c, "1-D pipeline requires a single non-negative dimension, got %v", shape)
	}
	return int(shape[0]), nil
}

func shape2D(c format.Codec, shape []int64) (numRows, numFeatures int, err *Error) {
	if len(shape) != 2 || shape[0] < 0 || shape[1] < 0 {
		return 0, 0, newError(InvalidShape, c, "2-D pipeline requires [num_rows, num_features], got %v", shape)
	}
	return int(shape[0]), int(shape[1]), nil
}

func shapeOB(c format.Codec, shape []int64, wantDepth, wantFields int) (numSnapshots, depth, fields int, err *Error) {
	if len(shape) != 3 || shape[0] < 0 || shape[1] < 0 || shape[2] < 0 {
		return 0, 0, 0, newError(InvalidShape, c, "order-book pipeline requires [num_snapshots, depth, fields], got %v", shape)
	}
	numSnapshots, depth, fields = int(shape[0]), int(shape[1]), int(shape[2])
	if wantDepth > 0 && depth != wantDepth {
		return 0, 0, 0, newError(InvalidShape, c, "expected depth %d, got %d", wantDepth, depth)
	}
	if wantFields > 0 && fields != wantFields {
		return 0, 0, 0, newError(InvalidShape, c, "expected %d fields, got %d", wantFields, fields)
	}
	return numSnapshots, depth, fields, nil
}
