package staging

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/veclake/veclake/blobstore"
	"github.com/veclake/veclake/codec"
)

// Stager pushes an index build's output binaries to remote storage in
// memory-bounded batches and accumulates the remote manifest.
//
// The manifest and byte counter only grow; a failed stage call leaves them
// reflecting the batches that completed before the failure, and the caller
// decides whether to re-invoke the whole call. Not safe for concurrent use.
type Stager struct {
	store       blobstore.ObjectStore
	meta        Meta
	compression codec.Compression
	budget      int64
	logger      *slog.Logger

	manifest   map[string]int64
	totalBytes int64
}

// NewStager creates a Stager for the index identified by meta.
func NewStager(store blobstore.ObjectStore, meta Meta, opts ...Option) *Stager {
	o := applyOptions(opts)
	return &Stager{
		store:       store,
		meta:        meta,
		compression: o.compression,
		budget:      o.budget,
		logger:      o.logger,
		manifest:    make(map[string]int64),
	}
}

// AddIndexData stages serialized index binaries under the index prefix.
func (s *Stager) AddIndexData(ctx context.Context, set *BinarySet) error {
	return s.addBinarySet(ctx, set, s.meta.IndexPrefix())
}

// AddTextLog stages free-text log shards under the text-log prefix.
func (s *Stager) AddTextLog(ctx context.Context, set *BinarySet) error {
	return s.addBinarySet(ctx, set, s.meta.TextLogPrefix())
}

func (s *Stager) addBinarySet(ctx context.Context, set *BinarySet, prefix string) error {
	batches := PlanBySize(set.Blobs(), Blob.Size, s.budget)

	for _, batch := range batches {
		// stageBatch scopes the encoded buffers so they are released
		// before the next batch; peak memory stays bounded by one batch.
		sizes, err := s.stageBatch(ctx, batch, prefix)
		if err != nil {
			return err
		}

		for name, size := range sizes {
			s.manifest[name] = size
		}
		for _, blob := range batch {
			s.totalBytes += blob.Size()
		}

		s.logger.Debug("staged batch",
			"prefix", prefix,
			"files", len(batch),
			"total_bytes", s.totalBytes,
		)
	}
	return nil
}

func (s *Stager) stageBatch(ctx context.Context, batch []Blob, prefix string) (map[string]int64, error) {
	names := make([]string, len(batch))
	payloads := make([][]byte, len(batch))
	for i, blob := range batch {
		framed, err := codec.Encode(blob.Data, s.compression)
		if err != nil {
			return nil, fmt.Errorf("staging: encode %s: %w", blob.Name, err)
		}
		names[i] = path.Join(prefix, blob.Name)
		payloads[i] = framed
	}

	sizes, err := s.store.Put(ctx, names, payloads)
	if err != nil {
		return nil, fmt.Errorf("staging: put batch of %d: %w", len(batch), err)
	}
	return sizes, nil
}

// Manifest returns the remote path to stored size mapping accumulated
// across all stage calls. The map is live; callers must not mutate it.
func (s *Stager) Manifest() map[string]int64 {
	return s.manifest
}

// TotalBytes returns the cumulative payload bytes staged.
func (s *Stager) TotalBytes() int64 {
	return s.totalBytes
}
