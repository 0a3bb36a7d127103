// Package stats computes the descriptive statistics consumed by the report:
// per-column summaries, skewness, and the Pearson correlation matrix.
package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

// ColumnStats summarizes a single numeric column.
type ColumnStats struct {
	Name     string
	Count    int
	Mean     float64
	Median   float64
	StdDev   float64
	Skewness float64
	Min      float64
	Max      float64
}

// Summary holds per-column statistics for every numeric column, in the
// dataset's column order.
type Summary struct {
	Columns []ColumnStats
}

// Correlation is the full pairwise Pearson correlation matrix over the
// dataset's numeric columns.
type Correlation struct {
	Columns []string
	Matrix  *mat.SymDense
}

// At returns the correlation between two named columns.
func (c *Correlation) At(a, b string) (float64, error) {
	ia, ib := -1, -1
	for i, name := range c.Columns {
		if name == a {
			ia = i
		}
		if name == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return 0, fmt.Errorf("correlation lookup (%s, %s): %w", a, b, common.ErrUnknownColumn)
	}
	return c.Matrix.At(ia, ib), nil
}

// Describe computes count, mean, median, standard deviation, skewness, and
// min/max for every numeric column. Purely informational; consumed only by
// the reporting stage.
func Describe(ds *model.Dataset) (*Summary, error) {
	if ds.NumRows() == 0 {
		return nil, fmt.Errorf("describe: %w", common.ErrEmptyDataset)
	}

	summary := &Summary{Columns: make([]ColumnStats, 0, ds.NumCols())}
	for _, name := range ds.Columns {
		col, err := ds.Column(name)
		if err != nil {
			return nil, fmt.Errorf("describe: %w", err)
		}

		sorted := append([]float64(nil), col...)
		sort.Float64s(sorted)

		summary.Columns = append(summary.Columns, ColumnStats{
			Name:     name,
			Count:    len(col),
			Mean:     stat.Mean(col, nil),
			Median:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
			StdDev:   stat.StdDev(col, nil),
			Skewness: stat.Skew(col, nil),
			Min:      sorted[0],
			Max:      sorted[len(sorted)-1],
		})
	}

	return summary, nil
}

// Correlate computes the full pairwise Pearson correlation matrix.
func Correlate(ds *model.Dataset) (*Correlation, error) {
	if ds.NumRows() < 2 {
		return nil, fmt.Errorf("correlate: need at least 2 rows: %w", common.ErrEmptyDataset)
	}

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, ds.Matrix(), nil)

	return &Correlation{
		Columns: append([]string(nil), ds.Columns...),
		Matrix:  &corr,
	}, nil
}
