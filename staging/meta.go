package staging

import (
	"fmt"
	"path"
)

// Remote layout roots. Index binaries and free-text log shards live under
// distinct, non-overlapping prefixes so the two artifact kinds can never
// collide.
const (
	indexFilesDir = "index_files"
	textLogDir    = "text_log"
)

// Meta identifies the logical index a Stager or Loader works for and
// shapes the remote object prefixes.
type Meta struct {
	// RootPath is the caller-supplied per-deployment root, e.g. "files".
	RootPath string

	CollectionID int64
	PartitionID  int64
	SegmentID    int64
	FieldID      int64

	// BuildID and IndexVersion identify one build of the index.
	BuildID      int64
	IndexVersion int64
}

// IndexPrefix returns the remote prefix for serialized index binaries.
func (m Meta) IndexPrefix() string {
	return m.prefix(indexFilesDir)
}

// TextLogPrefix returns the remote prefix for free-text log shards.
func (m Meta) TextLogPrefix() string {
	return m.prefix(textLogDir)
}

func (m Meta) prefix(kind string) string {
	return path.Join(m.RootPath, kind,
		fmt.Sprintf("%d", m.BuildID),
		fmt.Sprintf("%d", m.IndexVersion),
		fmt.Sprintf("%d", m.PartitionID),
		fmt.Sprintf("%d", m.SegmentID))
}
