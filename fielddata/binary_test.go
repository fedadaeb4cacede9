package fielddata

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt64(t *testing.T) {
	blk := NewScalars(KindInt64, []int64{-5, 0, 1 << 40, 42})

	raw, err := EncodeBlock(blk)
	require.NoError(t, err)

	decoded, err := DecodeBlock(raw)
	require.NoError(t, err)

	got, ok := decoded.(*Scalars[int64])
	require.True(t, ok)
	assert.Equal(t, blk.Values, got.Values)
	assert.Nil(t, got.Valid)
}

func TestEncodeDecodeStrings(t *testing.T) {
	blk := NewScalars(KindString, []string{"", "alpha", "β-category", "alpha"})

	raw, err := EncodeBlock(blk)
	require.NoError(t, err)

	decoded, err := DecodeBlock(raw)
	require.NoError(t, err)

	got, ok := decoded.(*Scalars[string])
	require.True(t, ok)
	assert.Equal(t, blk.Values, got.Values)
}

func TestEncodeDecodeBoolWithValidity(t *testing.T) {
	blk := NewScalars(KindBool, []bool{true, false, true, false})
	blk.Valid = roaring.New()
	blk.Valid.AddMany([]uint32{0, 2, 3})

	raw, err := EncodeBlock(blk)
	require.NoError(t, err)

	decoded, err := DecodeBlock(raw)
	require.NoError(t, err)

	got, ok := decoded.(*Scalars[bool])
	require.True(t, ok)
	assert.Equal(t, blk.Values, got.Values)
	require.NotNil(t, got.Valid)
	assert.True(t, got.IsValid(0))
	assert.False(t, got.IsValid(1))
	assert.True(t, got.IsValid(3))
}

func TestEncodeDecodeFloat64(t *testing.T) {
	blk := NewScalars(KindFloat64, []float64{-1.5, 0, 2.25e10})

	raw, err := EncodeBlock(blk)
	require.NoError(t, err)

	decoded, err := DecodeBlock(raw)
	require.NoError(t, err)

	got, ok := decoded.(*Scalars[float64])
	require.True(t, ok)
	assert.Equal(t, blk.Values, got.Values)
}

func TestEncodeDecodeVectors(t *testing.T) {
	blk := &Vectors{Dim: 3, Values: []float32{1, 2, 3, 4, 5, 6}}

	raw, err := EncodeBlock(blk)
	require.NoError(t, err)

	decoded, err := DecodeBlock(raw)
	require.NoError(t, err)

	got, ok := decoded.(*Vectors)
	require.True(t, ok)
	assert.Equal(t, 2, got.RowCount())
	assert.Equal(t, []float32{4, 5, 6}, got.Row(1))
}

func TestDecodeTruncatedColumn(t *testing.T) {
	blk := NewScalars(KindInt32, []int32{1, 2, 3})
	raw, err := EncodeBlock(blk)
	require.NoError(t, err)

	_, err = DecodeBlock(raw[:len(raw)-2])
	require.Error(t, err)

	_, err = DecodeBlock(raw[:3])
	require.Error(t, err)
}

func TestDecodeVectorHeaderOverflow(t *testing.T) {
	// Hostile header: rows and dim both 0xFFFFFFFF so rows*dim wraps
	// negative; decode must reject it rather than allocate.
	raw := []byte{
		byte(KindFloatVector), 0,
		0xFF, 0xFF, 0xFF, 0xFF, // rows
		0xFF, 0xFF, 0xFF, 0xFF, // dim
	}
	_, err := DecodeBlock(raw)
	require.Error(t, err)

	// Zero dim with nonzero rows cannot describe any body.
	raw = []byte{
		byte(KindFloatVector), 0,
		3, 0, 0, 0,
		0, 0, 0, 0,
	}
	_, err = DecodeBlock(raw)
	require.Error(t, err)
}

func TestDecodeUnknownKind(t *testing.T) {
	raw := []byte{0xEE, 0, 0, 0, 0, 0}
	_, err := DecodeBlock(raw)
	require.Error(t, err)
}

func TestConcatScalars(t *testing.T) {
	a := NewScalars(KindInt64, []int64{1, 2})
	b := NewScalars(KindInt64, []int64{3})
	b.Valid = roaring.New()
	b.Valid.Add(0)

	merged, err := Concat(KindInt64, []Block{a, b})
	require.NoError(t, err)

	got, ok := merged.(*Scalars[int64])
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, got.Values)

	// Validity re-bases onto the combined numbering; rows of the
	// all-valid first block stay valid.
	require.NotNil(t, got.Valid)
	assert.True(t, got.IsValid(0))
	assert.True(t, got.IsValid(1))
	assert.True(t, got.IsValid(2))
}

func TestConcatKindMismatch(t *testing.T) {
	a := NewScalars(KindInt64, []int64{1})
	b := NewScalars(KindInt32, []int32{2})

	_, err := Concat(KindInt64, []Block{a, b})
	require.Error(t, err)
}

func TestConcatVectorsDimMismatch(t *testing.T) {
	a := &Vectors{Dim: 2, Values: []float32{1, 2}}
	b := &Vectors{Dim: 3, Values: []float32{1, 2, 3}}

	_, err := Concat(KindFloatVector, []Block{a, b})
	require.Error(t, err)
}

func TestKindRoundTrip(t *testing.T) {
	for k := KindBool; k <= KindFloatVector; k++ {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("decimal")
	require.Error(t, err)
}
