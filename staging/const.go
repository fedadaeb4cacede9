package staging

const (
	// FieldMaxMemoryLimit is the shared byte budget for one batch. Writer
	// and reader both plan against it so they agree on how much fits in
	// memory at once.
	FieldMaxMemoryLimit = int64(64) << 20

	// FileSliceSize is the nominal size of one staged shard file, used to
	// derive the read-path parallel degree when actual sizes are unknown.
	FileSliceSize = int64(16) << 20
)

// Storage layout versions.
const (
	// StorageV1 is the flat per-field file-list layout.
	StorageV1 = int64(0)
	// StorageV2 is the segment-grouped column-chunk layout.
	StorageV2 = int64(2)
)

// Configuration keys consumed by the load path.
const (
	// StorageVersionKey selects the storage layout (StorageV1 or StorageV2).
	StorageVersionKey = "storage_version"
	// InsertFilesKey holds the flat []string of raw data file paths.
	InsertFilesKey = "insert_files"
	// SegmentInsertFilesKey holds the [][]string of per-segment file groups.
	SegmentInsertFilesKey = "segment_insert_files"
	// DataTypeKey holds the fielddata.Kind of a segment-grouped raw load.
	DataTypeKey = "data_type"
	// DimKey holds the vector dimensionality; ignored for scalar fields.
	DimKey = "dim"
	// OptFieldsKey holds the map[int64]OptField of optional scalar fields.
	OptFieldsKey = "opt_fields"
	// LoadPriorityKey holds the read-priority hint ("LOW"/"MEDIUM"/"HIGH").
	LoadPriorityKey = "load_priority"
)
