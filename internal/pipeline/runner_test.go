package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cardscope/internal/model"
)

// writeAccountsCSV builds a synthetic file with the full schema: two
// behavioral groups (low-activity and high-activity accounts) with small
// deterministic jitter so no column is constant unless asked for.
func writeAccountsCSV(t *testing.T, rows int, constantTenure bool) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(model.IDColumn + "," + strings.Join(model.NumericColumns, ",") + "\n")

	for i := 0; i < rows; i++ {
		scale := 1.0
		if i%2 == 1 {
			scale = 50.0
		}
		jitter := float64(i%5) * 0.1
		tenure := 6.0 + float64(i%7)
		if constantTenure {
			tenure = 12.0
		}

		fields := []string{fmt.Sprintf("C%05d", i)}
		for _, name := range model.NumericColumns {
			var v float64
			switch name {
			case "TENURE":
				v = tenure
			case "BALANCE_FREQUENCY", "PURCHASES_FREQUENCY", "ONEOFF_PURCHASES_FREQUENCY",
				"PURCHASES_INSTALLMENTS_FREQUENCY", "CASH_ADVANCE_FREQUENCY", "PRC_FULL_PAYMENT":
				v = 0.1 + 0.015*scale/50 + jitter/10
			default:
				v = 10*scale + jitter*scale
			}
			fields = append(fields, fmt.Sprintf("%g", v))
		}
		sb.WriteString(strings.Join(fields, ",") + "\n")
	}

	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func testConfig(path string) Config {
	cfg := DefaultConfig()
	cfg.InputPath = path
	cfg.Ks = []int{2, 3}
	cfg.MinClusterSize = 3
	return cfg
}

func TestRunner_EndToEnd(t *testing.T) {
	path := writeAccountsCSV(t, 30, false)

	runner, err := New(testConfig(path))
	require.NoError(t, err)

	doc, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, doc.Rows)
	assert.Equal(t, 0, doc.DroppedRows)
	require.NotNil(t, doc.Stats)
	require.NotNil(t, doc.LogStats)
	require.NotNil(t, doc.Corr)
	require.NotNil(t, doc.RawPCA)
	require.NotNil(t, doc.LogPCA)
	require.NotNil(t, doc.Dendrogram)
	require.NotNil(t, doc.Density)
	assert.Len(t, doc.HACCuts, 3)
	assert.Len(t, doc.KMeans, 2)
	assert.Empty(t, doc.DegenerateColumns)

	// Every assignment got joined back into a summary.
	for _, a := range doc.KMeans {
		assert.Contains(t, doc.Summaries, a.Name())
	}
	assert.Contains(t, doc.Summaries, doc.Density.Name())

	// The two synthetic behavioral groups are cleanly separable: k=2 puts
	// alternating rows into alternating clusters.
	k2 := doc.KMeans[0]
	labelEven, _ := k2.Label("C00000")
	labelOdd, _ := k2.Label("C00001")
	assert.NotEqual(t, labelEven, labelOdd)
}

func TestRunner_RendersDocument(t *testing.T) {
	path := writeAccountsCSV(t, 30, false)

	runner, err := New(testConfig(path))
	require.NoError(t, err)
	doc, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, doc.Render(io.Discard))

	htmlPath := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, doc.WriteHTML(htmlPath))

	info, err := os.Stat(htmlPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunner_DeterministicAcrossRuns(t *testing.T) {
	path := writeAccountsCSV(t, 30, false)

	runner, err := New(testConfig(path))
	require.NoError(t, err)

	first, err := runner.Run(context.Background())
	require.NoError(t, err)
	second, err := runner.Run(context.Background())
	require.NoError(t, err)

	for i := range first.KMeans {
		assert.Equal(t, first.KMeans[i].Labels, second.KMeans[i].Labels)
	}
	assert.Equal(t, first.LogPCA.Explained, second.LogPCA.Explained)
}

func TestRunner_ReportsDegenerateColumn(t *testing.T) {
	path := writeAccountsCSV(t, 30, true)

	runner, err := New(testConfig(path))
	require.NoError(t, err)

	doc, err := runner.Run(context.Background())
	require.NoError(t, err)

	// The constant column is excluded and reported by name; the run
	// continues on the surviving columns.
	assert.Equal(t, []string{"TENURE"}, doc.DegenerateColumns)
	require.NotNil(t, doc.LogPCA)
	assert.Equal(t, len(model.NumericColumns)-1, doc.LogPCA.NumComponents())
}

func TestRunner_CanceledContext(t *testing.T) {
	path := writeAccountsCSV(t, 30, false)

	runner, err := New(testConfig(path))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runner.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing input path", mutate: func(c *Config) { c.InputPath = "" }},
		{name: "no ks", mutate: func(c *Config) { c.Ks = nil }},
		{name: "non-positive k", mutate: func(c *Config) { c.Ks = []int{0} }},
		{name: "cut fraction out of range", mutate: func(c *Config) { c.CutFractions = []float64{1.5} }},
		{name: "non-positive iterations", mutate: func(c *Config) { c.MaxIterations = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("accounts.csv")
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}
