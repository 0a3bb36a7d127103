package model

import "gonum.org/v1/gonum/mat"

// TransformedMatrix is the numeric submatrix of a Dataset after log1p and
// optional standardization. The identifier column is carried alongside but
// excluded from numeric operations. Row order matches the source Dataset,
// minus nothing: transformation never drops rows, only degenerate columns.
type TransformedMatrix struct {
	IDs            []string
	Columns        []string
	Values         [][]float64
	LogTransformed bool
	Standardized   bool
}

// NumRows returns the number of records.
func (m *TransformedMatrix) NumRows() int {
	return len(m.IDs)
}

// NumCols returns the number of columns surviving transformation.
func (m *TransformedMatrix) NumCols() int {
	return len(m.Columns)
}

// Matrix copies the values into a dense matrix, one record per row.
func (m *TransformedMatrix) Matrix() *mat.Dense {
	d := mat.NewDense(m.NumRows(), m.NumCols(), nil)
	for i, row := range m.Values {
		d.SetRow(i, row)
	}
	return d
}

// Rows returns the values as a slice of row vectors, copied.
func (m *TransformedMatrix) Rows() [][]float64 {
	out := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
