package report

import (
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Veraticus/cardscope/internal/model"
	"github.com/Veraticus/cardscope/internal/pca"
)

func TestScatterChart(t *testing.T) {
	basis := &pca.Basis{
		Scores: mat.NewDense(4, 2, []float64{
			0.1, 0.2,
			1.5, -0.3,
			4.0, 4.1,
			4.2, 3.9,
		}),
		Explained:  []float64{0.7, 0.3},
		Cumulative: []float64{0.7, 1.0},
	}

	t.Run("keeps every non-contiguous label", func(t *testing.T) {
		// Labels with a gap, as when intermediate k-means clusters end up empty.
		a, err := model.NewClusterAssignment("kmeans", "k=7",
			[]string{"C101", "C102", "C103", "C104"}, []int{0, 1, 5, 5})
		require.NoError(t, err)

		scatter := ScatterChart("test", basis, a)

		names := make([]string, 0, len(scatter.MultiSeries))
		points := 0
		for _, s := range scatter.MultiSeries {
			names = append(names, s.Name)
			data, ok := s.Data.([]opts.ScatterData)
			require.True(t, ok)
			points += len(data)
		}

		assert.Equal(t, []string{"Noise", "Cluster 1", "Cluster 5"}, names)
		assert.Equal(t, 4, points, "every record must appear in exactly one series")
	})

	t.Run("series ordered by label", func(t *testing.T) {
		a, err := model.NewClusterAssignment("kmeans", "k=3",
			[]string{"C101", "C102", "C103", "C104"}, []int{3, 1, 2, 1})
		require.NoError(t, err)

		scatter := ScatterChart("test", basis, a)

		names := make([]string, 0, len(scatter.MultiSeries))
		for _, s := range scatter.MultiSeries {
			names = append(names, s.Name)
		}
		assert.Equal(t, []string{"Cluster 1", "Cluster 2", "Cluster 3"}, names)
	})
}
