package fielddata

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Concat joins blocks of one kind into a single block, preserving row
// order. Validity bitmaps are re-based onto the combined row numbering.
func Concat(kind Kind, blocks []Block) (Block, error) {
	if kind == KindFloatVector {
		return concatVectors(blocks)
	}

	switch kind {
	case KindBool:
		return concatScalars[bool](kind, blocks)
	case KindInt8:
		return concatScalars[int8](kind, blocks)
	case KindInt16:
		return concatScalars[int16](kind, blocks)
	case KindInt32:
		return concatScalars[int32](kind, blocks)
	case KindInt64:
		return concatScalars[int64](kind, blocks)
	case KindFloat32:
		return concatScalars[float32](kind, blocks)
	case KindFloat64:
		return concatScalars[float64](kind, blocks)
	case KindString:
		return concatScalars[string](kind, blocks)
	default:
		return nil, fmt.Errorf("fielddata: cannot concatenate kind %s", kind)
	}
}

func concatScalars[T ScalarValue](kind Kind, blocks []Block) (Block, error) {
	var total int
	for _, blk := range blocks {
		total += blk.RowCount()
	}

	out := NewScalars(kind, make([]T, 0, total))
	var valid *roaring.Bitmap
	base := uint32(0)

	for _, blk := range blocks {
		s, ok := blk.(*Scalars[T])
		if !ok {
			return nil, fmt.Errorf("fielddata: block kind %s does not match %s", blk.Kind(), kind)
		}
		out.Values = append(out.Values, s.Values...)
		if s.Valid != nil {
			if valid == nil {
				valid = roaring.New()
				// Rows of earlier all-valid blocks stay valid.
				if base > 0 {
					valid.AddRange(0, uint64(base))
				}
			}
			it := s.Valid.Iterator()
			for it.HasNext() {
				valid.Add(base + it.Next())
			}
		} else if valid != nil {
			valid.AddRange(uint64(base), uint64(base)+uint64(s.RowCount()))
		}
		base += uint32(blk.RowCount())
	}

	out.Valid = valid
	return out, nil
}

func concatVectors(blocks []Block) (Block, error) {
	out := &Vectors{}
	for _, blk := range blocks {
		v, ok := blk.(*Vectors)
		if !ok {
			return nil, fmt.Errorf("fielddata: block kind %s is not a vector block", blk.Kind())
		}
		if out.Dim == 0 {
			out.Dim = v.Dim
		} else if v.Dim != out.Dim {
			return nil, fmt.Errorf("fielddata: vector dim mismatch: %d vs %d", v.Dim, out.Dim)
		}
		out.Values = append(out.Values, v.Values...)
	}
	return out, nil
}
