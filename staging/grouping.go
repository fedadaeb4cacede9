package staging

import (
	"log/slog"

	"github.com/veclake/veclake/fielddata"
)

// GroupByScalar groups global row offsets by equal scalar value across
// blocks, the clustering table used to accelerate vector index builds.
// Blocks must be in original row order (the same invariant path sorting
// enforces on the load path); offsets run 0..N-1 over all blocks. Groups
// come back in first-appearance order of their value.
//
// A column with one or zero distinct values returns nil: there is no
// clustering signal worth carrying. An unsupported kind or a block/kind
// mismatch is a soft failure: it is logged and nil is returned so the
// index build proceeds without the optimization.
func GroupByScalar(kind fielddata.Kind, blocks []fielddata.Block, logger *slog.Logger) [][]uint32 {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		groups [][]uint32
		ok     bool
	)
	switch kind {
	case fielddata.KindBool:
		groups, ok = groupBlocks[bool](blocks)
	case fielddata.KindInt8:
		groups, ok = groupBlocks[int8](blocks)
	case fielddata.KindInt16:
		groups, ok = groupBlocks[int16](blocks)
	case fielddata.KindInt32:
		groups, ok = groupBlocks[int32](blocks)
	case fielddata.KindInt64:
		groups, ok = groupBlocks[int64](blocks)
	case fielddata.KindFloat32:
		groups, ok = groupBlocks[float32](blocks)
	case fielddata.KindFloat64:
		groups, ok = groupBlocks[float64](blocks)
	case fielddata.KindString:
		groups, ok = groupBlocks[string](blocks)
	default:
		logger.Warn("unsupported data type for optional scalar field", "kind", kind.String())
		return nil
	}

	if !ok {
		logger.Warn("optional field blocks do not match configured kind", "kind", kind.String())
		return nil
	}
	if len(groups) > 0 {
		logger.Info("grouped optional field values", "categories", len(groups))
	}
	return groups
}

func groupBlocks[T fielddata.ScalarValue](blocks []fielddata.Block) ([][]uint32, bool) {
	var (
		offset  uint32
		byValue = make(map[T][]uint32)
		order   []T
	)

	for _, blk := range blocks {
		s, ok := blk.(*fielddata.Scalars[T])
		if !ok {
			return nil, false
		}
		for _, v := range s.Values {
			if _, seen := byValue[v]; !seen {
				order = append(order, v)
			}
			byValue[v] = append(byValue[v], offset)
			offset++
		}
	}

	// A single category clusters nothing.
	if len(byValue) <= 1 {
		return nil, true
	}

	groups := make([][]uint32, 0, len(order))
	for _, v := range order {
		groups = append(groups, byValue[v])
	}
	return groups, true
}
