package staging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeta() Meta {
	return Meta{
		RootPath:     "files",
		CollectionID: 1,
		PartitionID:  2,
		SegmentID:    3,
		FieldID:      101,
		BuildID:      1000,
		IndexVersion: 1,
	}
}

func TestStagerAddIndexData(t *testing.T) {
	store := newMockStore()
	stager := NewStager(store, testMeta(), WithMemoryBudget(64))

	set := &BinarySet{}
	set.Append("shard_0", make([]byte, 30))
	set.Append("shard_1", make([]byte, 30))
	set.Append("shard_2", make([]byte, 30))
	require.Equal(t, 3, set.Len())
	require.Equal(t, int64(90), set.TotalSize())

	require.NoError(t, stager.AddIndexData(context.Background(), set))

	// Three 30-byte blobs under a 64-byte budget means two batches.
	assert.Equal(t, 2, store.putCalls)

	manifest := stager.Manifest()
	require.Len(t, manifest, 3)
	for name, size := range manifest {
		assert.True(t, strings.HasPrefix(name, testMeta().IndexPrefix()), "manifest path %s lacks index prefix", name)
		assert.GreaterOrEqual(t, size, int64(30))
	}
	assert.Equal(t, int64(90), stager.TotalBytes())
}

func TestStagerManifestGrowsAcrossCalls(t *testing.T) {
	store := newMockStore()
	stager := NewStager(store, testMeta())

	first := &BinarySet{}
	first.Append("a", []byte("abc"))
	require.NoError(t, stager.AddIndexData(context.Background(), first))

	second := &BinarySet{}
	second.Append("b", []byte("defgh"))
	require.NoError(t, stager.AddIndexData(context.Background(), second))

	assert.Len(t, stager.Manifest(), 2)
	assert.Equal(t, int64(8), stager.TotalBytes())
}

func TestStagerPrefixesDoNotOverlap(t *testing.T) {
	store := newMockStore()
	stager := NewStager(store, testMeta())

	idx := &BinarySet{}
	idx.Append("shard", []byte("index-bytes"))
	require.NoError(t, stager.AddIndexData(context.Background(), idx))

	logs := &BinarySet{}
	logs.Append("shard", []byte("log-bytes"))
	require.NoError(t, stager.AddTextLog(context.Background(), logs))

	// Same blob name under both kinds must land at distinct remote paths.
	require.Len(t, stager.Manifest(), 2)
	m := testMeta()
	assert.NotEqual(t, m.IndexPrefix(), m.TextLogPrefix())
}

func TestStagerPartialManifestOnFailure(t *testing.T) {
	store := newMockStore()
	store.failPutAt = 2
	stager := NewStager(store, testMeta(), WithMemoryBudget(16))

	set := &BinarySet{}
	set.Append("a", make([]byte, 12))
	set.Append("b", make([]byte, 12))
	set.Append("c", make([]byte, 12))

	err := stager.AddIndexData(context.Background(), set)
	require.ErrorIs(t, err, errInjected)

	// Only the first completed batch is committed; nothing is rolled back.
	assert.Len(t, stager.Manifest(), 1)
	assert.Equal(t, int64(12), stager.TotalBytes())
}
