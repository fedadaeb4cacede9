package fielddata

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Block is one contiguous run of decoded rows for a single field.
type Block interface {
	// Kind returns the value type stored in the block.
	Kind() Kind
	// RowCount returns the number of rows in the block.
	RowCount() int
}

// ScalarValue is the set of Go types a scalar column may hold.
type ScalarValue interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64 | ~string
}

// Scalars is a scalar column block. Values are in row order. Valid, when
// non-nil, marks the rows that carry a value; a nil Valid means every row
// is valid.
type Scalars[T ScalarValue] struct {
	kind   Kind
	Values []T
	Valid  *roaring.Bitmap
}

// NewScalars creates a scalar block over values.
func NewScalars[T ScalarValue](kind Kind, values []T) *Scalars[T] {
	return &Scalars[T]{kind: kind, Values: values}
}

// Kind returns the value type stored in the block.
func (s *Scalars[T]) Kind() Kind { return s.kind }

// RowCount returns the number of rows in the block.
func (s *Scalars[T]) RowCount() int { return len(s.Values) }

// Value returns the value at row i.
func (s *Scalars[T]) Value(i int) T { return s.Values[i] }

// IsValid reports whether row i carries a value.
func (s *Scalars[T]) IsValid(i int) bool {
	if s.Valid == nil {
		return true
	}
	return s.Valid.Contains(uint32(i))
}

// Vectors is a fixed-dimension float32 vector block. Values holds
// RowCount()*Dim floats in row order.
type Vectors struct {
	Dim    int
	Values []float32
}

// Kind returns KindFloatVector.
func (v *Vectors) Kind() Kind { return KindFloatVector }

// RowCount returns the number of rows in the block.
func (v *Vectors) RowCount() int {
	if v.Dim == 0 {
		return 0
	}
	return len(v.Values) / v.Dim
}

// Row returns the vector at row i. The slice aliases the block.
func (v *Vectors) Row(i int) []float32 {
	return v.Values[i*v.Dim : (i+1)*v.Dim]
}
