package tensor

import "fmt"

// DType is the logical element type of a tensor.
type DType int

const (
	Float32 DType = iota
	Float64
	Int32
	Int64
	UInt8
	Bool
)

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case UInt8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("dtype(%d)", int(d))
	}
}

// IsInteger reports whether values of this dtype are whole numbers.
func (d DType) IsInteger() bool {
	return d == Int32 || d == Int64 || d == UInt8
}

// IsFloat reports whether this dtype is a floating-point type.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}
