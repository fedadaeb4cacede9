package columnar

import (
	"encoding/binary"
	"fmt"

	"github.com/veclake/veclake/fielddata"
)

// Chunk frame format, inside the codec envelope, little-endian:
//
//	[ColumnCount uint16] then per column:
//	[FieldID int64][BlockLen uint32][Block bytes...]
//
// Columns within one chunk cover the same rows; each Block is in the
// fielddata column wire format.

// Column pairs a field identifier with its block for chunk assembly.
type Column struct {
	FieldID int64
	Block   fielddata.Block
}

// EncodeChunk serializes columns into a chunk frame. Callers wrap the
// result in a codec envelope before staging it.
func EncodeChunk(columns []Column) ([]byte, error) {
	out := binary.LittleEndian.AppendUint16(nil, uint16(len(columns)))
	for _, col := range columns {
		encoded, err := fielddata.EncodeBlock(col.Block)
		if err != nil {
			return nil, fmt.Errorf("columnar: encode field %d: %w", col.FieldID, err)
		}
		out = binary.LittleEndian.AppendUint64(out, uint64(col.FieldID))
		out = binary.LittleEndian.AppendUint32(out, uint32(len(encoded)))
		out = append(out, encoded...)
	}
	return out, nil
}

// extractColumn returns the block for fieldID from a chunk frame.
func extractColumn(frame []byte, fieldID int64) (fielddata.Block, error) {
	if len(frame) < 2 {
		return nil, fmt.Errorf("chunk frame shorter than header")
	}
	count := int(binary.LittleEndian.Uint16(frame))
	pos := 2

	for i := 0; i < count; i++ {
		if len(frame) < pos+12 {
			return nil, fmt.Errorf("chunk frame truncated at column %d", i)
		}
		id := int64(binary.LittleEndian.Uint64(frame[pos:]))
		blockLen := int(binary.LittleEndian.Uint32(frame[pos+8:]))
		pos += 12
		if len(frame) < pos+blockLen {
			return nil, fmt.Errorf("chunk frame truncated in column %d body", i)
		}
		if id == fieldID {
			return fielddata.DecodeBlock(frame[pos : pos+blockLen])
		}
		pos += blockLen
	}
	return nil, fmt.Errorf("field %d not present in chunk", fieldID)
}
