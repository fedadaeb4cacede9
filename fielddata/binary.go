package fielddata

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// Column wire format, all integers little-endian:
//
//	[Kind uint8][Flags uint8][RowCount uint32][Body...][Validity?]
//
// Body is RowCount*FixedWidth bytes for fixed-width kinds; for strings it is
// RowCount+1 uint32 offsets followed by the concatenated bytes; for float
// vectors it is a uint32 dim followed by RowCount*dim float32 values.
// When Flags bit 0 is set, a serialized roaring validity bitmap follows the
// body, prefixed by its uint32 byte length.

const flagHasValidity = 1 << 0

// EncodeBlock serializes blk into the column wire format.
func EncodeBlock(blk Block) ([]byte, error) {
	switch b := blk.(type) {
	case *Scalars[bool]:
		body := make([]byte, len(b.Values))
		for i, v := range b.Values {
			if v {
				body[i] = 1
			}
		}
		return assemble(b.kind, len(b.Values), body, b.Valid)
	case *Scalars[int8]:
		body := make([]byte, len(b.Values))
		for i, v := range b.Values {
			body[i] = byte(v)
		}
		return assemble(b.kind, len(b.Values), body, b.Valid)
	case *Scalars[int16]:
		body := make([]byte, 2*len(b.Values))
		for i, v := range b.Values {
			binary.LittleEndian.PutUint16(body[2*i:], uint16(v))
		}
		return assemble(b.kind, len(b.Values), body, b.Valid)
	case *Scalars[int32]:
		body := make([]byte, 4*len(b.Values))
		for i, v := range b.Values {
			binary.LittleEndian.PutUint32(body[4*i:], uint32(v))
		}
		return assemble(b.kind, len(b.Values), body, b.Valid)
	case *Scalars[int64]:
		body := make([]byte, 8*len(b.Values))
		for i, v := range b.Values {
			binary.LittleEndian.PutUint64(body[8*i:], uint64(v))
		}
		return assemble(b.kind, len(b.Values), body, b.Valid)
	case *Scalars[float32]:
		body := make([]byte, 4*len(b.Values))
		for i, v := range b.Values {
			binary.LittleEndian.PutUint32(body[4*i:], math.Float32bits(v))
		}
		return assemble(b.kind, len(b.Values), body, b.Valid)
	case *Scalars[float64]:
		body := make([]byte, 8*len(b.Values))
		for i, v := range b.Values {
			binary.LittleEndian.PutUint64(body[8*i:], math.Float64bits(v))
		}
		return assemble(b.kind, len(b.Values), body, b.Valid)
	case *Scalars[string]:
		n := len(b.Values)
		var total int
		for _, v := range b.Values {
			total += len(v)
		}
		body := make([]byte, 4*(n+1)+total)
		off := uint32(0)
		for i, v := range b.Values {
			binary.LittleEndian.PutUint32(body[4*i:], off)
			off += uint32(len(v))
		}
		binary.LittleEndian.PutUint32(body[4*n:], off)
		pos := 4 * (n + 1)
		for _, v := range b.Values {
			pos += copy(body[pos:], v)
		}
		return assemble(b.kind, n, body, b.Valid)
	case *Vectors:
		rows := b.RowCount()
		body := make([]byte, 4+4*len(b.Values))
		binary.LittleEndian.PutUint32(body, uint32(b.Dim))
		for i, v := range b.Values {
			binary.LittleEndian.PutUint32(body[4+4*i:], math.Float32bits(v))
		}
		return assemble(KindFloatVector, rows, body, nil)
	default:
		return nil, fmt.Errorf("fielddata: cannot encode block of type %T", blk)
	}
}

func assemble(kind Kind, rows int, body []byte, valid *roaring.Bitmap) ([]byte, error) {
	var flags uint8
	var validBytes []byte
	if valid != nil {
		var err error
		validBytes, err = valid.MarshalBinary()
		if err != nil {
			return nil, err
		}
		flags |= flagHasValidity
	}

	out := make([]byte, 0, 6+len(body)+4+len(validBytes))
	out = append(out, byte(kind), flags)
	out = binary.LittleEndian.AppendUint32(out, uint32(rows))
	out = append(out, body...)
	if valid != nil {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(validBytes)))
		out = append(out, validBytes...)
	}
	return out, nil
}

// DecodeBlock parses a column in the wire format back into a Block.
func DecodeBlock(raw []byte) (Block, error) {
	if len(raw) < 6 {
		return nil, fmt.Errorf("fielddata: column shorter than header (%d bytes)", len(raw))
	}
	kind := Kind(raw[0])
	flags := raw[1]
	rows := int(binary.LittleEndian.Uint32(raw[2:6]))
	body := raw[6:]

	var blk Block
	var bodyLen int
	var err error

	switch kind {
	case KindBool:
		bodyLen = rows
		blk, err = decodeFixed(kind, rows, body, bodyLen, func(b []byte, i int) bool { return b[i] != 0 })
	case KindInt8:
		bodyLen = rows
		blk, err = decodeFixed(kind, rows, body, bodyLen, func(b []byte, i int) int8 { return int8(b[i]) })
	case KindInt16:
		bodyLen = 2 * rows
		blk, err = decodeFixed(kind, rows, body, bodyLen, func(b []byte, i int) int16 {
			return int16(binary.LittleEndian.Uint16(b[2*i:]))
		})
	case KindInt32:
		bodyLen = 4 * rows
		blk, err = decodeFixed(kind, rows, body, bodyLen, func(b []byte, i int) int32 {
			return int32(binary.LittleEndian.Uint32(b[4*i:]))
		})
	case KindInt64:
		bodyLen = 8 * rows
		blk, err = decodeFixed(kind, rows, body, bodyLen, func(b []byte, i int) int64 {
			return int64(binary.LittleEndian.Uint64(b[8*i:]))
		})
	case KindFloat32:
		bodyLen = 4 * rows
		blk, err = decodeFixed(kind, rows, body, bodyLen, func(b []byte, i int) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
		})
	case KindFloat64:
		bodyLen = 8 * rows
		blk, err = decodeFixed(kind, rows, body, bodyLen, func(b []byte, i int) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
		})
	case KindString:
		blk, bodyLen, err = decodeStrings(rows, body)
	case KindFloatVector:
		blk, bodyLen, err = decodeVectors(rows, body)
	default:
		return nil, fmt.Errorf("fielddata: unknown column kind %d", raw[0])
	}
	if err != nil {
		return nil, err
	}

	if flags&flagHasValidity != 0 {
		valid, err := decodeValidity(body[bodyLen:])
		if err != nil {
			return nil, err
		}
		setValidity(blk, valid)
	}
	return blk, nil
}

func decodeFixed[T ScalarValue](kind Kind, rows int, body []byte, bodyLen int, read func([]byte, int) T) (Block, error) {
	if len(body) < bodyLen {
		return nil, fmt.Errorf("fielddata: %s column truncated: want %d body bytes, have %d", kind, bodyLen, len(body))
	}
	values := make([]T, rows)
	for i := range values {
		values[i] = read(body, i)
	}
	return NewScalars(kind, values), nil
}

func decodeStrings(rows int, body []byte) (Block, int, error) {
	offTable := 4 * (rows + 1)
	if len(body) < offTable {
		return nil, 0, fmt.Errorf("fielddata: string column truncated offset table")
	}
	end := binary.LittleEndian.Uint32(body[4*rows:])
	bodyLen := offTable + int(end)
	if len(body) < bodyLen {
		return nil, 0, fmt.Errorf("fielddata: string column truncated: want %d body bytes, have %d", bodyLen, len(body))
	}
	data := body[offTable:bodyLen]
	values := make([]string, rows)
	for i := range values {
		lo := binary.LittleEndian.Uint32(body[4*i:])
		hi := binary.LittleEndian.Uint32(body[4*(i+1):])
		if lo > hi || hi > end {
			return nil, 0, fmt.Errorf("fielddata: string column has invalid offsets at row %d", i)
		}
		values[i] = string(data[lo:hi])
	}
	return NewScalars(KindString, values), bodyLen, nil
}

func decodeVectors(rows int, body []byte) (Block, int, error) {
	if len(body) < 4 {
		return nil, 0, fmt.Errorf("fielddata: vector column truncated dim")
	}
	dim := int(binary.LittleEndian.Uint32(body))
	// rows*dim can overflow int for hostile headers; bound the product
	// against the available body bytes before computing sizes.
	if rows > 0 && (dim == 0 || uint64(rows)*uint64(dim) > uint64(len(body)-4)/4) {
		return nil, 0, fmt.Errorf("fielddata: vector column truncated: %d rows of dim %d exceed %d body bytes", rows, dim, len(body)-4)
	}
	bodyLen := 4 + 4*rows*dim
	if len(body) < bodyLen {
		return nil, 0, fmt.Errorf("fielddata: vector column truncated: want %d body bytes, have %d", bodyLen, len(body))
	}
	values := make([]float32, rows*dim)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[4+4*i:]))
	}
	return &Vectors{Dim: dim, Values: values}, bodyLen, nil
}

func decodeValidity(trailer []byte) (*roaring.Bitmap, error) {
	if len(trailer) < 4 {
		return nil, fmt.Errorf("fielddata: validity trailer truncated")
	}
	n := int(binary.LittleEndian.Uint32(trailer))
	if len(trailer) < 4+n {
		return nil, fmt.Errorf("fielddata: validity bitmap truncated: want %d bytes, have %d", n, len(trailer)-4)
	}
	bm := roaring.New()
	if err := bm.UnmarshalBinary(trailer[4 : 4+n]); err != nil {
		return nil, fmt.Errorf("fielddata: decode validity bitmap: %w", err)
	}
	return bm, nil
}

func setValidity(blk Block, valid *roaring.Bitmap) {
	switch b := blk.(type) {
	case *Scalars[bool]:
		b.Valid = valid
	case *Scalars[int8]:
		b.Valid = valid
	case *Scalars[int16]:
		b.Valid = valid
	case *Scalars[int32]:
		b.Valid = valid
	case *Scalars[int64]:
		b.Valid = valid
	case *Scalars[float32]:
		b.Valid = valid
	case *Scalars[float64]:
		b.Valid = valid
	case *Scalars[string]:
		b.Valid = valid
	}
}
