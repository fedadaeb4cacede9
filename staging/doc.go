// Package staging moves index artifacts and raw column data between remote
// object storage and process memory under a fixed memory budget.
//
// The package is the write/read choke point of an index build: a Stager
// pushes an index's output binaries to the object store in bounded batches
// and accumulates the remote manifest, while a Loader reads artifacts or
// raw rows back, again batch by batch, for both the flat file-list layout
// and the segment-grouped (storage v2) layout.
//
// Two invariants run through everything here:
//
//   - Peak memory is bounded by one batch. Batches are processed strictly
//     sequentially; only the object store may parallelize within a batch.
//   - Remote path order encodes row order. Flat file lists are sorted
//     lexicographically before reading, so shard files must be named such
//     that lexicographic order equals intended row order.
//
// Stager and Loader instances are not safe for concurrent use; callers
// serialize access per instance.
package staging
