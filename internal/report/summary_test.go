package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cardscope/internal/model"
)

func summaryDataset() *model.Dataset {
	return &model.Dataset{
		IDs:     []string{"a", "b", "c", "d"},
		Columns: []string{"BALANCE", "PURCHASES"},
		Values: [][]float64{
			{100, 50},
			{200, 150},
			{0, 10},
			{0, 0},
		},
	}
}

func assignment(t *testing.T, ids []string, labels []int) *model.ClusterAssignment {
	t.Helper()
	a, err := model.NewClusterAssignment("kmeans", "k=2", ids, labels)
	require.NoError(t, err)
	return a
}

func TestSummarize(t *testing.T) {
	a := assignment(t, []string{"a", "b", "c", "d"}, []int{1, 1, 2, 2})

	summaries, dropped, err := Summarize(a, summaryDataset())
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, 1, first.Label)
	assert.Equal(t, 2, first.Size)
	assert.InDelta(t, 150.0, first.MeanBalance, 1e-12)
	assert.InDelta(t, 100.0, first.MeanPurchases, 1e-12)
	require.True(t, first.RatioDefined)
	assert.InDelta(t, 100.0/150.0, first.Ratio, 1e-12)
}

func TestSummarize_UndefinedRatio(t *testing.T) {
	a := assignment(t, []string{"a", "b", "c", "d"}, []int{1, 1, 2, 2})

	summaries, _, err := Summarize(a, summaryDataset())
	require.NoError(t, err)

	// Cluster 2 has zero mean balance: its ratio is undefined, not coerced
	// to zero or infinity.
	second := summaries[1]
	assert.Equal(t, 2, second.Label)
	assert.InDelta(t, 0.0, second.MeanBalance, 1e-12)
	assert.False(t, second.RatioDefined)
	assert.Equal(t, 0.0, second.Ratio)
}

func TestSummarize_DropsUnassignedRows(t *testing.T) {
	// "d" never received an assignment; the join drops it with a count.
	a := assignment(t, []string{"a", "b", "c"}, []int{1, 1, 2})

	summaries, dropped, err := Summarize(a, summaryDataset())
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	total := 0
	for _, s := range summaries {
		total += s.Size
	}
	assert.Equal(t, 3, total)
}

func TestSummarize_NoiseGroupIsReported(t *testing.T) {
	a, err := model.NewClusterAssignment("hdbscan", "minPts=3",
		[]string{"a", "b", "c", "d"}, []int{1, 1, model.NoiseLabel, model.NoiseLabel})
	require.NoError(t, err)

	summaries, _, sumErr := Summarize(a, summaryDataset())
	require.NoError(t, sumErr)
	require.Len(t, summaries, 2)

	// Noise sorts first as label 0 and keeps its own aggregate row.
	assert.Equal(t, model.NoiseLabel, summaries[0].Label)
	assert.Equal(t, 2, summaries[0].Size)
}

func TestSummarize_MissingMeasureColumns(t *testing.T) {
	ds := &model.Dataset{
		IDs:     []string{"a"},
		Columns: []string{"TENURE"},
		Values:  [][]float64{{12}},
	}
	a := assignment(t, []string{"a"}, []int{1})

	_, _, err := Summarize(a, ds)
	require.Error(t, err)
}
