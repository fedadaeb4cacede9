// Package columnar reads the segment-grouped (storage v2) layout, where a
// segment's rows are stored as column-chunk files holding several fields
// side by side. A reader extracts one field's column from each group.
package columnar

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veclake/veclake/blobstore"
	"github.com/veclake/veclake/codec"
	"github.com/veclake/veclake/fielddata"
	"github.com/veclake/veclake/resource"
)

// Reader extracts one field's data from segment-grouped chunk files.
type Reader interface {
	// Read returns one block per group, in group order. Paths within each
	// group must already be sorted; the group is read as a unit and its
	// chunks concatenate in path order. dim is validated for vector
	// fields and ignored otherwise.
	Read(ctx context.Context, groups [][]string, fieldID int64, kind fielddata.Kind, dim int64, prio resource.Priority) ([]fielddata.Block, error)
}

// StoreReader implements Reader over an ObjectStore whose chunk files are
// codec-framed column frames (see EncodeChunk).
type StoreReader struct {
	store  blobstore.ObjectStore
	logger *slog.Logger
}

// NewStoreReader creates a StoreReader.
func NewStoreReader(store blobstore.ObjectStore, logger *slog.Logger) *StoreReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreReader{store: store, logger: logger}
}

// Read implements Reader.
func (r *StoreReader) Read(ctx context.Context, groups [][]string, fieldID int64, kind fielddata.Kind, dim int64, prio resource.Priority) ([]fielddata.Block, error) {
	blocks := make([]fielddata.Block, 0, len(groups))

	for gi, group := range groups {
		raws, err := r.store.Get(ctx, group, prio)
		if err != nil {
			return nil, fmt.Errorf("columnar: get group %d: %w", gi, err)
		}

		chunkBlocks := make([]fielddata.Block, 0, len(raws))
		for ci, raw := range raws {
			payload, err := codec.Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("columnar: decode chunk %s: %w", group[ci], err)
			}
			blk, err := extractColumn(payload, fieldID)
			if err != nil {
				return nil, fmt.Errorf("columnar: chunk %s: %w", group[ci], err)
			}
			chunkBlocks = append(chunkBlocks, blk)
		}

		merged, err := fielddata.Concat(kind, chunkBlocks)
		if err != nil {
			return nil, fmt.Errorf("columnar: group %d: %w", gi, err)
		}
		if v, ok := merged.(*fielddata.Vectors); ok && dim > 0 && int64(v.Dim) != dim {
			return nil, fmt.Errorf("columnar: field %d has dim %d, expected %d", fieldID, v.Dim, dim)
		}
		blocks = append(blocks, merged)

		r.logger.Debug("read column group",
			"group", gi,
			"chunks", len(group),
			"rows", merged.RowCount(),
			"field_id", fieldID,
		)
	}
	return blocks, nil
}
