package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClusterAssignment(t *testing.T) {
	a, err := NewClusterAssignment("kmeans", "k=2", []string{"a", "b", "c"}, []int{1, 2, 1})
	require.NoError(t, err)

	assert.Equal(t, "kmeans (k=2)", a.Name())
	assert.Equal(t, 2, a.NumClusters())
	assert.Equal(t, 0, a.NoiseCount())

	label, ok := a.Label("b")
	require.True(t, ok)
	assert.Equal(t, 2, label)

	_, ok = a.Label("nope")
	assert.False(t, ok)
}

func TestNewClusterAssignment_LengthMismatch(t *testing.T) {
	_, err := NewClusterAssignment("kmeans", "k=2", []string{"a", "b"}, []int{1})
	require.Error(t, err)
}

func TestClusterAssignment_Noise(t *testing.T) {
	a, err := NewClusterAssignment("hdbscan", "minPts=5",
		[]string{"a", "b", "c", "d"}, []int{NoiseLabel, 1, NoiseLabel, 1})
	require.NoError(t, err)

	assert.Equal(t, 1, a.NumClusters())
	assert.Equal(t, 2, a.NoiseCount())
	assert.Equal(t, "hdbscan (minPts=5)", a.Name())
}

func TestDataset_ColumnAccess(t *testing.T) {
	ds := &Dataset{
		IDs:     []string{"a", "b"},
		Columns: []string{"BALANCE", "PURCHASES"},
		Values:  [][]float64{{1, 2}, {3, 4}},
	}

	col, err := ds.Column("PURCHASES")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, col)

	_, err = ds.Column("NOPE")
	require.Error(t, err)

	m := ds.Matrix()
	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 3.0, m.At(1, 0))
}
