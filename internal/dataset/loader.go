// Package dataset loads the credit-card activity CSV into a Dataset,
// validating the schema and applying the listwise-deletion cleaning pass.
package dataset

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

// Load reads the CSV at path and produces a cleaned Dataset. It returns the
// number of rows dropped by listwise deletion alongside the dataset.
//
// The file must carry a header row with the identifier column and all 17
// numeric columns; anything else is a DataFormatError. Any row with a missing
// or unparseable numeric value is dropped entirely, once, before any
// downstream stage — there is no per-stage filtering and no imputation.
func Load(path string) (*model.Dataset, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close dataset file", "path", path, "error", closeErr)
		}
	}()

	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return nil, 0, &common.DataFormatError{
			Path:   path,
			Reason: fmt.Sprintf("failed to parse CSV: %v", df.Err),
		}
	}

	present := make(map[string]struct{}, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = struct{}{}
	}

	var missing []string
	if _, ok := present[model.IDColumn]; !ok {
		missing = append(missing, model.IDColumn)
	}
	for _, name := range model.NumericColumns {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, 0, &common.DataFormatError{
			Path:    path,
			Reason:  "expected schema not satisfied",
			Missing: missing,
		}
	}

	ids := df.Col(model.IDColumn).Records()
	columns := make([][]float64, len(model.NumericColumns))
	for i, name := range model.NumericColumns {
		columns[i] = df.Col(name).Float()
	}

	total := df.Nrow()
	ds := &model.Dataset{
		Columns: append([]string(nil), model.NumericColumns...),
	}

	// Listwise deletion: keep a row iff every numeric field parsed to a
	// finite value. gota surfaces missing or malformed cells as NaN.
	for row := 0; row < total; row++ {
		complete := true
		for _, col := range columns {
			if math.IsNaN(col[row]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		values := make([]float64, len(columns))
		for c, col := range columns {
			values[c] = col[row]
		}
		ds.IDs = append(ds.IDs, ids[row])
		ds.Values = append(ds.Values, values)
	}

	dropped := total - ds.NumRows()
	if ds.NumRows() == 0 {
		return nil, dropped, fmt.Errorf("%s: no complete rows after cleaning: %w", path, common.ErrEmptyDataset)
	}

	slog.Info("Loaded dataset",
		"path", path,
		"rows", ds.NumRows(),
		"columns", ds.NumCols(),
		"dropped_rows", dropped)

	return ds, dropped, nil
}
