// Package fielddata holds decoded column data for a single field, the unit
// a loader hands to index builders. A Block is one contiguous run of rows
// for one field; row order inside a block and across blocks is the original
// row order of the collection.
package fielddata

import "fmt"

// Kind identifies the concrete scalar (or vector) type stored in a Block.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindBool is a boolean column.
	KindBool
	// KindInt8 is an 8-bit integer column.
	KindInt8
	// KindInt16 is a 16-bit integer column.
	KindInt16
	// KindInt32 is a 32-bit integer column.
	KindInt32
	// KindInt64 is a 64-bit integer column.
	KindInt64
	// KindFloat32 is a 32-bit float column.
	KindFloat32
	// KindFloat64 is a 64-bit float column.
	KindFloat64
	// KindString is a variable-length text column.
	KindString
	// KindFloatVector is a fixed-dimension float32 vector column.
	KindFloatVector
)

// String returns the canonical name of k.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindFloatVector:
		return "float_vector"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// FixedWidth returns the encoded bytes per row for fixed-width kinds and 0
// for variable-width or vector kinds.
func (k Kind) FixedWidth() int {
	switch k {
	case KindBool, KindInt8:
		return 1
	case KindInt16:
		return 2
	case KindInt32, KindFloat32:
		return 4
	case KindInt64, KindFloat64:
		return 8
	default:
		return 0
	}
}

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	for k := KindBool; k <= KindFloatVector; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("fielddata: unknown kind %q", s)
}
