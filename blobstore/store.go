// Package blobstore abstracts the remote object store that staged index
// artifacts and raw column data live in.
//
// ObjectStore is a batch contract: one call moves one planned batch. Both
// operations are order- and count-preserving; implementations may fan out
// network requests inside a call, but must never reorder, drop, or invent
// entries. Callers treat a count mismatch as data corruption.
//
// # Built-in Implementations
//
//   - MemoryStore: map-backed, for tests and embedded use
//   - minio.Store: MinIO and S3-compatible endpoints
//   - s3.Store: AWS S3 with multipart uploads
package blobstore

import (
	"context"
	"errors"

	"github.com/veclake/veclake/resource"
)

// ErrNotFound is returned when a named object does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`.
var ErrNotFound = errors.New("blobstore: object not found")

// ObjectStore moves batches of named objects to and from remote storage.
type ObjectStore interface {
	// Put stores payloads[i] under names[i] and returns the stored size
	// per name. A returned error means at least one object failed; the
	// partial state of the batch is undefined.
	Put(ctx context.Context, names []string, payloads [][]byte) (map[string]int64, error)

	// Get fetches the named objects and returns exactly len(names)
	// payloads in input order. prio is a scheduling hint relative to
	// other loads in the process; it never affects results.
	Get(ctx context.Context, names []string, prio resource.Priority) ([][]byte, error)
}
