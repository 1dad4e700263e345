// Package tensor provides the flat buffers and row-sparse containers that
// Strata's update kernels operate on.
package tensor

import "github.com/x448/float16"

// Element is a constraint for supported tensor element types. The
// ~uint16 term exists solely to admit float16.Float16, which is declared
// over uint16; a plain uint16 (or any other named type over these
// underlying types) has no DataType and is rejected at runtime.
type Element interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint16
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Float16
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Float16:
		return 2
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// inferDataType infers DataType from a generic element type T. The
// second result is false for types the constraint admits but no DataType
// covers, such as a plain uint16.
func inferDataType[T Element](dummy T) (DataType, bool) {
	switch any(dummy).(type) {
	case float32:
		return Float32, true
	case float64:
		return Float64, true
	case float16.Float16:
		return Float16, true
	case int32:
		return Int32, true
	case int64:
		return Int64, true
	default:
		return 0, false
	}
}
