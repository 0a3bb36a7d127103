package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

func writeCSV(t *testing.T, header string, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.csv")
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func fullHeader() string {
	return model.IDColumn + "," + strings.Join(model.NumericColumns, ",")
}

func fullRow(id string, value float64) string {
	fields := make([]string, 0, len(model.NumericColumns)+1)
	fields = append(fields, id)
	for range model.NumericColumns {
		fields = append(fields, fmt.Sprintf("%g", value))
	}
	return strings.Join(fields, ",")
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeCSV(t, fullHeader(),
		fullRow("C10001", 1.5),
		fullRow("C10002", 2.5),
		fullRow("C10003", 3.5),
	)

	ds, dropped, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, len(model.NumericColumns), ds.NumCols())
	assert.Equal(t, 0, dropped)
	assert.Equal(t, []string{"C10001", "C10002", "C10003"}, ds.IDs)

	balance, err := ds.Column("BALANCE")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, balance)
}

func TestLoad_ListwiseDeletion(t *testing.T) {
	missing := strings.Replace(fullRow("C10002", 2.5), "2.5", "", 1)
	malformed := strings.Replace(fullRow("C10004", 4.5), "4.5", "not-a-number", 1)
	path := writeCSV(t, fullHeader(),
		fullRow("C10001", 1.5),
		missing,
		fullRow("C10003", 3.5),
		malformed,
	)

	ds, dropped, err := Load(path)
	require.NoError(t, err)

	// A row is retained iff none of its numeric fields is missing.
	assert.Equal(t, 2, ds.NumRows())
	assert.Equal(t, 2, dropped)
	assert.Equal(t, []string{"C10001", "C10003"}, ds.IDs)
}

func TestLoad_MissingColumns(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantMissing string
	}{
		{
			name:        "missing identifier column",
			header:      strings.Join(model.NumericColumns, ","),
			wantMissing: model.IDColumn,
		},
		{
			name:        "missing numeric column",
			header:      model.IDColumn + "," + strings.Join(model.NumericColumns[1:], ","),
			wantMissing: model.NumericColumns[0],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := strings.Repeat("1,", strings.Count(tt.header, ","))
			path := writeCSV(t, tt.header, "x,"+row[:len(row)-1])

			_, _, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrDataFormat)

			var formatErr *common.DataFormatError
			require.True(t, errors.As(err, &formatErr))
			assert.Contains(t, formatErr.Missing, tt.wantMissing)
		})
	}
}

func TestLoad_AllRowsIncomplete(t *testing.T) {
	empty := strings.Replace(fullRow("C10001", 1.5), "1.5", "", 1)
	path := writeCSV(t, fullHeader(), empty)

	_, dropped, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEmptyDataset)
	assert.Equal(t, 1, dropped)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
