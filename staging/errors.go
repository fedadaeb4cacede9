package staging

import "errors"

var (
	// ErrInconsistentCount is returned when the object store hands back a
	// different number of items than were requested. It indicates adapter
	// or data corruption and is never retried here.
	ErrInconsistentCount = errors.New("staging: inconsistent file num and data num")

	// ErrMultipleOptFields is returned when more than one optional scalar
	// field is configured. Clustering over multiple fields is not
	// implemented, and the check runs before any I/O.
	ErrMultipleOptFields = errors.New("staging: not implemented: vector index build with multiple optional fields")

	// ErrMissingInsertFiles is returned when a raw data load has no file
	// list configured.
	ErrMissingInsertFiles = errors.New("staging: insert file paths are empty when building index")

	// ErrMissingDataType is returned when a segment-grouped raw load has
	// no data type configured.
	ErrMissingDataType = errors.New("staging: data type is empty for storage v2 load")
)
