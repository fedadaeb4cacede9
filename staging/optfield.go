package staging

import (
	"context"
	"fmt"

	"github.com/veclake/veclake/resource"
)

// CacheOptField loads the configured optional scalar field and returns its
// clustering table: field id to groups of global row offsets sharing one
// scalar value.
//
// The call is synchronous and single-shot. No configured field, a field
// with no data, or a field whose values cannot be grouped all return an
// empty result so the enclosing index build proceeds without the
// optimization. Configuring more than one field fails with
// ErrMultipleOptFields before any I/O is attempted.
func (l *Loader) CacheOptField(ctx context.Context, cfg Config) (map[int64][][]uint32, error) {
	optFields, ok := GetValue[map[int64]OptField](cfg, OptFieldsKey)
	if !ok || len(optFields) == 0 {
		return nil, nil
	}
	if len(optFields) > 1 {
		return nil, ErrMultipleOptFields
	}

	if storageVersion(cfg) == StorageV2 {
		return l.cacheOptFieldV2(ctx, cfg, optFields)
	}
	return l.cacheOptFieldFlat(ctx, cfg, optFields)
}

func (l *Loader) cacheOptFieldFlat(ctx context.Context, cfg Config, optFields map[int64]OptField) (map[int64][][]uint32, error) {
	prio := resource.ParsePriority(loadPriority(cfg))
	res := make(map[int64][][]uint32, len(optFields))

	for fieldID, field := range optFields {
		if len(field.Paths) == 0 {
			l.logger.Warn("optional field has no data", "field_id", fieldID, "field", field.Name)
			return nil, nil
		}

		blocks, err := l.fetchBlocks(ctx, sortedPaths(field.Paths), prio)
		if err != nil {
			return nil, fmt.Errorf("staging: load optional field %d: %w", fieldID, err)
		}
		res[fieldID] = GroupByScalar(field.Kind, blocks, l.logger)
	}
	return res, nil
}

func (l *Loader) cacheOptFieldV2(ctx context.Context, cfg Config, optFields map[int64]OptField) (map[int64][][]uint32, error) {
	groups, ok := GetValue[[][]string](cfg, SegmentInsertFilesKey)
	if !ok || len(groups) == 0 {
		return nil, ErrMissingInsertFiles
	}
	if l.columnar == nil {
		return nil, fmt.Errorf("staging: storage v2 load requires a columnar reader")
	}
	prio := resource.ParsePriority(loadPriority(cfg))

	sorted := make([][]string, len(groups))
	for i, group := range groups {
		sorted[i] = sortedPaths(group)
	}

	res := make(map[int64][][]uint32, len(optFields))
	for fieldID, field := range optFields {
		// Scalar columns carry a fixed dim of 1 in this layout.
		blocks, err := l.columnar.Read(ctx, sorted, fieldID, field.Kind, 1, prio)
		if err != nil {
			return nil, fmt.Errorf("staging: load optional field %d: %w", fieldID, err)
		}
		res[fieldID] = GroupByScalar(field.Kind, blocks, l.logger)
	}
	return res, nil
}
