package staging

import (
	"github.com/veclake/veclake/fielddata"
)

// Config is the key/value configuration surface a build/load driver hands
// to the Loader. Keys and value types are listed in const.go; GetValue is
// the typed accessor.
type Config map[string]any

// GetValue returns cfg[key] as T. The second result is false when the key
// is absent or holds a different type.
func GetValue[T any](cfg Config, key string) (T, bool) {
	var zero T
	raw, ok := cfg[key]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// OptField describes one user-designated optional scalar field whose values
// cluster rows for index-build optimization.
type OptField struct {
	Name  string
	Kind  fielddata.Kind
	Paths []string
}

// storageVersion reads the layout version, defaulting to the flat layout.
func storageVersion(cfg Config) int64 {
	v, ok := GetValue[int64](cfg, StorageVersionKey)
	if !ok {
		return StorageV1
	}
	return v
}

// loadPriority reads the read-priority hint, defaulting to high.
func loadPriority(cfg Config) string {
	s, _ := GetValue[string](cfg, LoadPriorityKey)
	return s
}
