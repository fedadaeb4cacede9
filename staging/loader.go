package staging

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"

	"github.com/veclake/veclake/blobstore"
	"github.com/veclake/veclake/codec"
	"github.com/veclake/veclake/columnar"
	"github.com/veclake/veclake/fielddata"
	"github.com/veclake/veclake/resource"
)

// Loader reads index artifacts and raw column data back from remote
// storage in memory-bounded batches. Not safe for concurrent use.
type Loader struct {
	store     blobstore.ObjectStore
	meta      Meta
	columnar  columnar.Reader
	budget    int64
	sliceSize int64
	logger    *slog.Logger
}

// NewLoader creates a Loader for the index identified by meta.
// Storage v2 loads additionally require WithColumnarReader.
func NewLoader(store blobstore.ObjectStore, meta Meta, opts ...Option) *Loader {
	o := applyOptions(opts)
	return &Loader{
		store:     store,
		meta:      meta,
		columnar:  o.columnar,
		budget:    o.budget,
		sliceSize: o.sliceSize,
		logger:    o.logger,
	}
}

// LoadIndex fetches index artifacts by remote path and returns them keyed
// by path basename: index artifacts are retrieved by logical name, not row
// order. The result holds exactly one entry per requested file or the call
// fails with ErrInconsistentCount.
func (l *Loader) LoadIndex(ctx context.Context, remoteFiles []string, prio resource.Priority) (map[string]*codec.Artifact, error) {
	degree := ParallelDegree(l.budget, l.sliceSize)
	artifacts := make(map[string]*codec.Artifact, len(remoteFiles))

	for _, batch := range PlanByCount(remoteFiles, degree) {
		raws, err := l.store.Get(ctx, batch, prio)
		if err != nil {
			return nil, fmt.Errorf("staging: get index batch: %w", err)
		}
		if len(raws) != len(batch) {
			return nil, fmt.Errorf("%w: requested %d index files, got %d", ErrInconsistentCount, len(batch), len(raws))
		}

		for i, raw := range raws {
			payload, err := codec.Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("staging: decode %s: %w", batch[i], err)
			}
			name := path.Base(batch[i])
			artifacts[name] = &codec.Artifact{Name: name, Payload: payload}
		}
	}

	// Duplicate basenames collapse map entries; the size check catches that
	// as well as a store returning short.
	if len(artifacts) != len(remoteFiles) {
		return nil, fmt.Errorf("%w: %d index files but %d artifacts", ErrInconsistentCount, len(remoteFiles), len(artifacts))
	}
	return artifacts, nil
}

// LoadRawData reads a field's raw rows per the configured storage layout.
// Returned blocks are in original row order; the caller owns them.
func (l *Loader) LoadRawData(ctx context.Context, cfg Config) ([]fielddata.Block, error) {
	if storageVersion(cfg) == StorageV2 {
		return l.loadRawDataV2(ctx, cfg)
	}
	return l.loadRawDataFlat(ctx, cfg)
}

func (l *Loader) loadRawDataFlat(ctx context.Context, cfg Config) ([]fielddata.Block, error) {
	files, ok := GetValue[[]string](cfg, InsertFilesKey)
	if !ok || len(files) == 0 {
		return nil, ErrMissingInsertFiles
	}
	paths := sortedPaths(files)
	prio := resource.ParsePriority(loadPriority(cfg))

	blocks, err := l.fetchBlocks(ctx, paths, prio)
	if err != nil {
		return nil, err
	}
	if len(blocks) != len(paths) {
		return nil, fmt.Errorf("%w: %d raw files but %d blocks", ErrInconsistentCount, len(paths), len(blocks))
	}
	return blocks, nil
}

func (l *Loader) loadRawDataV2(ctx context.Context, cfg Config) ([]fielddata.Block, error) {
	kind, ok := GetValue[fielddata.Kind](cfg, DataTypeKey)
	if !ok {
		return nil, ErrMissingDataType
	}
	groups, ok := GetValue[[][]string](cfg, SegmentInsertFilesKey)
	if !ok || len(groups) == 0 {
		return nil, ErrMissingInsertFiles
	}
	if l.columnar == nil {
		return nil, fmt.Errorf("staging: storage v2 load requires a columnar reader")
	}
	dim, _ := GetValue[int64](cfg, DimKey)
	prio := resource.ParsePriority(loadPriority(cfg))

	sorted := make([][]string, len(groups))
	for i, group := range groups {
		sorted[i] = sortedPaths(group)
	}

	// No count check here: the block list may legitimately differ from the
	// group list for storage v2; group granularity is the unit of
	// correctness in this layout.
	return l.columnar.Read(ctx, sorted, l.meta.FieldID, kind, dim, prio)
}

// fetchBlocks reads codec-framed column files in count-bounded batches and
// decodes each into a field data block, preserving input order.
func (l *Loader) fetchBlocks(ctx context.Context, paths []string, prio resource.Priority) ([]fielddata.Block, error) {
	degree := ParallelDegree(l.budget, l.sliceSize)
	blocks := make([]fielddata.Block, 0, len(paths))

	for _, batch := range PlanByCount(paths, degree) {
		raws, err := l.store.Get(ctx, batch, prio)
		if err != nil {
			return nil, fmt.Errorf("staging: get raw batch: %w", err)
		}
		if len(raws) != len(batch) {
			return nil, fmt.Errorf("%w: requested %d raw files, got %d", ErrInconsistentCount, len(batch), len(raws))
		}

		for i, raw := range raws {
			payload, err := codec.Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("staging: decode %s: %w", batch[i], err)
			}
			blk, err := fielddata.DecodeBlock(payload)
			if err != nil {
				return nil, fmt.Errorf("staging: decode column %s: %w", batch[i], err)
			}
			blocks = append(blocks, blk)
		}

		l.logger.Debug("loaded raw batch", "files", len(batch))
	}
	return blocks, nil
}

// sortedPaths returns a lexicographically sorted copy of paths. Path order
// is the contract that encodes original row order across shard files, so
// callers must name shards such that lexicographic order equals row order.
func sortedPaths(paths []string) []string {
	out := slices.Clone(paths)
	slices.Sort(out)
	return out
}
