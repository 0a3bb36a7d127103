// Package transform prepares the numeric matrix for distance-based methods:
// log1p compression of the heavy right tails, then optional per-column
// z-score standardization.
package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

// Transform applies ln(1+x) elementwise to every numeric column and, when
// standardize is true, additionally centers each column to zero mean and
// scales it to unit variance using the column's own post-log moments.
//
// Monetary and count variables are heavily right-skewed; without the log the
// long tail dominates every Euclidean computation downstream, and without
// standardization a dollar-scale column drowns out a months-scale one.
//
// A column with zero variance after the log cannot be standardized. Such
// columns are excluded from the returned matrix and reported through a
// DegenerateColumnError; the matrix is still usable, so the caller chooses
// whether the run continues.
func Transform(ds *model.Dataset, standardize bool) (*model.TransformedMatrix, error) {
	if ds.NumRows() == 0 {
		return nil, fmt.Errorf("transform: %w", common.ErrEmptyDataset)
	}

	tm := log1p(ds)
	if !standardize {
		return tm, nil
	}
	return zscore(tm)
}

// Standardize z-scores the raw (non-log) columns. Used for the comparison
// PCA run on unlogged data.
func Standardize(ds *model.Dataset) (*model.TransformedMatrix, error) {
	if ds.NumRows() == 0 {
		return nil, fmt.Errorf("standardize: %w", common.ErrEmptyDataset)
	}

	tm := &model.TransformedMatrix{
		IDs:     append([]string(nil), ds.IDs...),
		Columns: append([]string(nil), ds.Columns...),
		Values:  copyValues(ds.Values),
	}
	return zscore(tm)
}

func log1p(ds *model.Dataset) *model.TransformedMatrix {
	values := make([][]float64, len(ds.Values))
	for i, row := range ds.Values {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = math.Log1p(v)
		}
		values[i] = out
	}
	return &model.TransformedMatrix{
		IDs:            append([]string(nil), ds.IDs...),
		Columns:        append([]string(nil), ds.Columns...),
		Values:         values,
		LogTransformed: true,
	}
}

// zscore standardizes each column independently. Degenerate columns are
// dropped from the output; the returned matrix holds only the survivors.
func zscore(tm *model.TransformedMatrix) (*model.TransformedMatrix, error) {
	n, p := tm.NumRows(), tm.NumCols()

	means := make([]float64, p)
	stddevs := make([]float64, p)
	col := make([]float64, n)

	var degenerate []string
	keep := make([]int, 0, p)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			col[i] = tm.Values[i][j]
		}
		means[j] = stat.Mean(col, nil)
		stddevs[j] = stat.StdDev(col, nil)
		if stddevs[j] == 0 || math.IsNaN(stddevs[j]) {
			degenerate = append(degenerate, tm.Columns[j])
			continue
		}
		keep = append(keep, j)
	}

	out := &model.TransformedMatrix{
		IDs:            append([]string(nil), tm.IDs...),
		Columns:        make([]string, 0, len(keep)),
		Values:         make([][]float64, n),
		LogTransformed: tm.LogTransformed,
		Standardized:   true,
	}
	for _, j := range keep {
		out.Columns = append(out.Columns, tm.Columns[j])
	}
	for i := 0; i < n; i++ {
		row := make([]float64, len(keep))
		for c, j := range keep {
			row[c] = (tm.Values[i][j] - means[j]) / stddevs[j]
		}
		out.Values[i] = row
	}

	if len(degenerate) > 0 {
		return out, &common.DegenerateColumnError{Columns: degenerate}
	}
	return out, nil
}

func copyValues(values [][]float64) [][]float64 {
	out := make([][]float64, len(values))
	for i, row := range values {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
