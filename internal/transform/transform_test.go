package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

func testDataset() *model.Dataset {
	return &model.Dataset{
		IDs:     []string{"a", "b", "c", "d"},
		Columns: []string{"BALANCE", "PURCHASES"},
		Values: [][]float64{
			{0, 5},
			{100, 50},
			{1000, 500},
			{10000, 5000},
		},
	}
}

func TestTransform_Log1p(t *testing.T) {
	tm, err := Transform(testDataset(), false)
	require.NoError(t, err)

	assert.True(t, tm.LogTransformed)
	assert.False(t, tm.Standardized)

	// log1p(0) = 0 and log1p(x) ≥ 0 for non-negative x.
	assert.Equal(t, 0.0, tm.Values[0][0])
	for _, row := range tm.Values {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}

	assert.InDelta(t, math.Log1p(100), tm.Values[1][0], 1e-12)
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	ds := testDataset()
	_, err := Transform(ds, true)
	require.NoError(t, err)

	assert.Equal(t, 100.0, ds.Values[1][0])
}

func TestTransform_Standardize(t *testing.T) {
	tm, err := Transform(testDataset(), true)
	require.NoError(t, err)

	assert.True(t, tm.Standardized)

	// Each column has mean ≈ 0 and variance ≈ 1.
	for j := range tm.Columns {
		col := make([]float64, tm.NumRows())
		for i := range tm.Values {
			col[i] = tm.Values[i][j]
		}
		assert.InDelta(t, 0.0, stat.Mean(col, nil), 1e-10)
		assert.InDelta(t, 1.0, stat.Variance(col, nil), 1e-10)
	}
}

func TestTransform_DegenerateColumn(t *testing.T) {
	ds := testDataset()
	ds.Columns = append(ds.Columns, "TENURE")
	for i := range ds.Values {
		ds.Values[i] = append(ds.Values[i], 12)
	}

	tm, err := Transform(ds, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDegenerateColumn)

	var degErr *common.DegenerateColumnError
	require.True(t, errors.As(err, &degErr))
	assert.Equal(t, []string{"TENURE"}, degErr.Columns)

	// The matrix is still usable, minus the degenerate column.
	require.NotNil(t, tm)
	assert.Equal(t, []string{"BALANCE", "PURCHASES"}, tm.Columns)
	assert.Equal(t, 4, tm.NumRows())
	assert.Equal(t, 2, tm.NumCols())
}

func TestStandardize_Raw(t *testing.T) {
	tm, err := Standardize(testDataset())
	require.NoError(t, err)

	assert.False(t, tm.LogTransformed)
	assert.True(t, tm.Standardized)

	col := make([]float64, tm.NumRows())
	for i := range tm.Values {
		col[i] = tm.Values[i][0]
	}
	assert.InDelta(t, 0.0, stat.Mean(col, nil), 1e-10)
	assert.InDelta(t, 1.0, stat.Variance(col, nil), 1e-10)
}

func TestTransform_EmptyDataset(t *testing.T) {
	_, err := Transform(&model.Dataset{}, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEmptyDataset)
}
