package staging

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veclake/veclake/codec"
	"github.com/veclake/veclake/columnar"
	"github.com/veclake/veclake/fielddata"
	"github.com/veclake/veclake/resource"
)

// stageColumn writes one codec-framed int64 column file into the store.
func stageColumn(t *testing.T, store *mockStore, path string, values []int64) {
	t.Helper()
	raw, err := fielddata.EncodeBlock(fielddata.NewScalars(fielddata.KindInt64, values))
	require.NoError(t, err)
	framed, err := codec.Encode(raw, codec.CompressionNone)
	require.NoError(t, err)
	_, err = store.Put(context.Background(), []string{path}, [][]byte{framed})
	require.NoError(t, err)
}

func int64Rows(t *testing.T, blocks []fielddata.Block) []int64 {
	t.Helper()
	var rows []int64
	for _, blk := range blocks {
		s, ok := blk.(*fielddata.Scalars[int64])
		require.True(t, ok)
		rows = append(rows, s.Values...)
	}
	return rows
}

func TestLoadRawDataFlatRestoresRowOrder(t *testing.T) {
	store := newMockStore()
	// Shards staged so that lexicographic path order equals row order.
	stageColumn(t, store, "raw/part_00", []int64{0, 1, 2})
	stageColumn(t, store, "raw/part_01", []int64{3, 4})
	stageColumn(t, store, "raw/part_02", []int64{5, 6, 7, 8})

	loader := NewLoader(store, testMeta())
	cfg := Config{
		// Deliberately out of order; the loader must sort by path.
		InsertFilesKey: []string{"raw/part_02", "raw/part_00", "raw/part_01"},
	}

	blocks, err := loader.LoadRawData(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8}, int64Rows(t, blocks))
}

func TestLoadRawDataFlatBatchesByCount(t *testing.T) {
	store := newMockStore()
	var files []string
	for i := 0; i < 5; i++ {
		p := fmt.Sprintf("raw/part_%02d", i)
		stageColumn(t, store, p, []int64{int64(i)})
		files = append(files, p)
	}

	// budget/slice = 2 files per batch, so 5 files take 3 gets.
	loader := NewLoader(store, testMeta(), WithMemoryBudget(32), WithSliceSize(16))
	blocks, err := loader.LoadRawData(context.Background(), Config{InsertFilesKey: files})
	require.NoError(t, err)
	require.Len(t, blocks, 5)
	assert.Equal(t, 3, store.getCalls)
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, int64Rows(t, blocks))
}

func TestLoadRawDataFlatCountMismatchIsFatal(t *testing.T) {
	store := newMockStore()
	stageColumn(t, store, "raw/part_00", []int64{1})
	stageColumn(t, store, "raw/part_01", []int64{2})
	store.dropFromGet = 1

	loader := NewLoader(store, testMeta())
	_, err := loader.LoadRawData(context.Background(), Config{
		InsertFilesKey: []string{"raw/part_00", "raw/part_01"},
	})
	require.ErrorIs(t, err, ErrInconsistentCount)
}

func TestLoadRawDataMissingFiles(t *testing.T) {
	loader := NewLoader(newMockStore(), testMeta())

	_, err := loader.LoadRawData(context.Background(), Config{})
	require.ErrorIs(t, err, ErrMissingInsertFiles)

	_, err = loader.LoadRawData(context.Background(), Config{InsertFilesKey: []string{}})
	require.ErrorIs(t, err, ErrMissingInsertFiles)
}

func TestLoadIndexKeyedByBasename(t *testing.T) {
	store := newMockStore()
	meta := testMeta()
	loader := NewLoader(store, meta)

	var paths []string
	for _, name := range []string{"IVF_META", "IVF_DATA"} {
		p := meta.IndexPrefix() + "/" + name
		framed, err := codec.Encode([]byte("payload-"+name), codec.CompressionNone)
		require.NoError(t, err)
		_, err = store.Put(context.Background(), []string{p}, [][]byte{framed})
		require.NoError(t, err)
		paths = append(paths, p)
	}

	artifacts, err := loader.LoadIndex(context.Background(), paths, resource.PriorityHigh)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	require.Contains(t, artifacts, "IVF_META")
	require.Contains(t, artifacts, "IVF_DATA")
	assert.Equal(t, []byte("payload-IVF_META"), artifacts["IVF_META"].Payload)
}

func TestLoadIndexCountMismatchIsFatal(t *testing.T) {
	store := newMockStore()
	framed, err := codec.Encode([]byte("x"), codec.CompressionNone)
	require.NoError(t, err)
	_, err = store.Put(context.Background(), []string{"idx/a", "idx/b"}, [][]byte{framed, framed})
	require.NoError(t, err)
	store.dropFromGet = 1

	loader := NewLoader(store, testMeta())
	_, err = loader.LoadIndex(context.Background(), []string{"idx/a", "idx/b"}, resource.PriorityHigh)
	require.ErrorIs(t, err, ErrInconsistentCount)
}

func TestLoadRawDataV2(t *testing.T) {
	store := newMockStore()
	meta := testMeta()

	// Two segment groups; each group holds two column chunks carrying the
	// target field (101) next to an unrelated field.
	stageChunk := func(path string, rows []int64) {
		chunk, err := columnar.EncodeChunk([]columnar.Column{
			{FieldID: 7, Block: fielddata.NewScalars(fielddata.KindBool, make([]bool, len(rows)))},
			{FieldID: meta.FieldID, Block: fielddata.NewScalars(fielddata.KindInt64, rows)},
		})
		require.NoError(t, err)
		framed, err := codec.Encode(chunk, codec.CompressionNone)
		require.NoError(t, err)
		_, err = store.Put(context.Background(), []string{path}, [][]byte{framed})
		require.NoError(t, err)
	}
	stageChunk("seg0/chunk_00", []int64{0, 1})
	stageChunk("seg0/chunk_01", []int64{2})
	stageChunk("seg1/chunk_00", []int64{3, 4})

	loader := NewLoader(store, meta,
		WithColumnarReader(columnar.NewStoreReader(store, nil)))

	cfg := Config{
		StorageVersionKey: StorageV2,
		DataTypeKey:       fielddata.KindInt64,
		SegmentInsertFilesKey: [][]string{
			{"seg0/chunk_01", "seg0/chunk_00"}, // out of order inside the group
			{"seg1/chunk_00"},
		},
	}

	blocks, err := loader.LoadRawData(context.Background(), cfg)
	require.NoError(t, err)
	// One block per group, in group order.
	require.Len(t, blocks, 2)
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, int64Rows(t, blocks))
}

func TestLoadRawDataV2RequiresDataType(t *testing.T) {
	loader := NewLoader(newMockStore(), testMeta(),
		WithColumnarReader(columnar.NewStoreReader(newMockStore(), nil)))

	_, err := loader.LoadRawData(context.Background(), Config{
		StorageVersionKey:     StorageV2,
		SegmentInsertFilesKey: [][]string{{"seg0/chunk_00"}},
	})
	require.ErrorIs(t, err, ErrMissingDataType)
}
