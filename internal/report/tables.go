package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/Veraticus/cardscope/internal/model"
	"github.com/Veraticus/cardscope/internal/pca"
	"github.com/Veraticus/cardscope/internal/stats"
)

// RenderStatsTable writes the per-column descriptive statistics.
func RenderStatsTable(w io.Writer, summary *stats.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Count", "Mean", "Median", "StdDev", "Skewness", "Min", "Max"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, c := range summary.Columns {
		table.Append([]string{
			c.Name,
			strconv.Itoa(c.Count),
			formatFloat(c.Mean),
			formatFloat(c.Median),
			formatFloat(c.StdDev),
			formatFloat(c.Skewness),
			formatFloat(c.Min),
			formatFloat(c.Max),
		})
	}
	table.Render()
}

// RenderCorrelationTable writes the full pairwise Pearson correlation matrix.
// Column headers are abbreviated to their position to keep 17 columns legible
// in a terminal; the row label carries the full name.
func RenderCorrelationTable(w io.Writer, corr *stats.Correlation) {
	header := make([]string, 0, len(corr.Columns)+1)
	header = append(header, "")
	for i := range corr.Columns {
		header = append(header, fmt.Sprintf("c%d", i+1))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)

	for i, name := range corr.Columns {
		row := make([]string, 0, len(corr.Columns)+1)
		row = append(row, fmt.Sprintf("c%d %s", i+1, name))
		for j := range corr.Columns {
			row = append(row, fmt.Sprintf("%.2f", corr.Matrix.At(i, j)))
		}
		table.Append(row)
	}
	table.Render()
}

// RenderExplainedVariance writes marginal and cumulative explained-variance
// fractions per principal component.
func RenderExplainedVariance(w io.Writer, basis *pca.Basis) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Component", "Explained", "Cumulative"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for i := range basis.Explained {
		table.Append([]string{
			fmt.Sprintf("PC%d", i+1),
			fmt.Sprintf("%.4f", basis.Explained[i]),
			fmt.Sprintf("%.4f", basis.Cumulative[i]),
		})
	}
	table.Render()
}

// RenderClusterSummaries writes the per-cluster aggregates for one
// assignment. An undefined ratio renders as "n/a".
func RenderClusterSummaries(w io.Writer, summaries []ClusterSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Cluster", "Size", "Mean balance", "Mean purchases", "Purchases/balance"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, s := range summaries {
		label := strconv.Itoa(s.Label)
		if s.Label == model.NoiseLabel {
			label = "noise"
		}
		ratio := "n/a"
		if s.RatioDefined {
			ratio = fmt.Sprintf("%.3f", s.Ratio)
		}
		table.Append([]string{
			label,
			strconv.Itoa(s.Size),
			fmt.Sprintf("%.2f", s.MeanBalance),
			fmt.Sprintf("%.2f", s.MeanPurchases),
			ratio,
		})
	}
	table.Render()
}

// RenderCutComparison writes the group counts produced by cutting the
// dendrogram at each height threshold.
func RenderCutComparison(w io.Writer, cuts []*model.ClusterAssignment) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Cut", "Clusters"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, cut := range cuts {
		table.Append([]string{cut.Params, strconv.Itoa(cut.NumClusters())})
	}
	table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
