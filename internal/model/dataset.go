package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dataset is an ordered collection of account records sharing one schema:
// one identifier per row plus a numeric value for each column. Rows with
// missing numeric values are excluded at load time, so every downstream
// stage sees the same filtered row set and identifiers stay joinable.
type Dataset struct {
	IDs     []string
	Columns []string
	Values  [][]float64 // row-major; len(Values) == len(IDs), len(Values[i]) == len(Columns)
}

// NumRows returns the number of records.
func (d *Dataset) NumRows() int {
	return len(d.IDs)
}

// NumCols returns the number of numeric columns.
func (d *Dataset) NumCols() int {
	return len(d.Columns)
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's values.
func (d *Dataset) Column(name string) ([]float64, error) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q: not in dataset", name)
	}
	out := make([]float64, len(d.Values))
	for i, row := range d.Values {
		out[i] = row[idx]
	}
	return out, nil
}

// Matrix copies the numeric values into a dense matrix, one record per row.
func (d *Dataset) Matrix() *mat.Dense {
	m := mat.NewDense(d.NumRows(), d.NumCols(), nil)
	for i, row := range d.Values {
		m.SetRow(i, row)
	}
	return m
}
