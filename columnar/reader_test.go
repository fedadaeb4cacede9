package columnar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veclake/veclake/blobstore"
	"github.com/veclake/veclake/codec"
	"github.com/veclake/veclake/fielddata"
	"github.com/veclake/veclake/resource"
)

func stageChunk(t *testing.T, store *blobstore.MemoryStore, path string, columns []Column) {
	t.Helper()
	frame, err := EncodeChunk(columns)
	require.NoError(t, err)
	framed, err := codec.Encode(frame, codec.CompressionNone)
	require.NoError(t, err)
	_, err = store.Put(context.Background(), []string{path}, [][]byte{framed})
	require.NoError(t, err)
}

func TestChunkRoundTrip(t *testing.T) {
	frame, err := EncodeChunk([]Column{
		{FieldID: 1, Block: fielddata.NewScalars(fielddata.KindInt32, []int32{1, 2, 3})},
		{FieldID: 2, Block: fielddata.NewScalars(fielddata.KindString, []string{"x", "y", "z"})},
	})
	require.NoError(t, err)

	blk, err := extractColumn(frame, 2)
	require.NoError(t, err)
	s, ok := blk.(*fielddata.Scalars[string])
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, s.Values)

	_, err = extractColumn(frame, 99)
	require.Error(t, err, "absent field must not decode")
}

func TestStoreReaderReadsGroupsInOrder(t *testing.T) {
	store := blobstore.NewMemoryStore()
	fieldID := int64(101)

	stageChunk(t, store, "seg0/c0", []Column{
		{FieldID: fieldID, Block: fielddata.NewScalars(fielddata.KindInt64, []int64{0, 1})},
	})
	stageChunk(t, store, "seg0/c1", []Column{
		{FieldID: fieldID, Block: fielddata.NewScalars(fielddata.KindInt64, []int64{2})},
	})
	stageChunk(t, store, "seg1/c0", []Column{
		{FieldID: fieldID, Block: fielddata.NewScalars(fielddata.KindInt64, []int64{3})},
	})

	r := NewStoreReader(store, nil)
	blocks, err := r.Read(context.Background(),
		[][]string{{"seg0/c0", "seg0/c1"}, {"seg1/c0"}},
		fieldID, fielddata.KindInt64, 0, resource.PriorityMedium)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	first, ok := blocks[0].(*fielddata.Scalars[int64])
	require.True(t, ok)
	assert.Equal(t, []int64{0, 1, 2}, first.Values)

	second, ok := blocks[1].(*fielddata.Scalars[int64])
	require.True(t, ok)
	assert.Equal(t, []int64{3}, second.Values)
}

func TestStoreReaderVectorDimCheck(t *testing.T) {
	store := blobstore.NewMemoryStore()
	fieldID := int64(100)

	stageChunk(t, store, "seg0/c0", []Column{
		{FieldID: fieldID, Block: &fielddata.Vectors{Dim: 4, Values: make([]float32, 8)}},
	})

	r := NewStoreReader(store, nil)

	blocks, err := r.Read(context.Background(), [][]string{{"seg0/c0"}},
		fieldID, fielddata.KindFloatVector, 4, resource.PriorityHigh)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, 2, blocks[0].RowCount())

	_, err = r.Read(context.Background(), [][]string{{"seg0/c0"}},
		fieldID, fielddata.KindFloatVector, 8, resource.PriorityHigh)
	require.Error(t, err, "dim hint mismatch must fail")
}

func TestStoreReaderMissingChunk(t *testing.T) {
	r := NewStoreReader(blobstore.NewMemoryStore(), nil)
	_, err := r.Read(context.Background(), [][]string{{"absent"}},
		1, fielddata.KindInt64, 0, resource.PriorityHigh)
	require.Error(t, err)
}
