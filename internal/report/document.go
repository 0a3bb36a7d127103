package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/cardscope/internal/cli"
	"github.com/Veraticus/cardscope/internal/cluster"
	"github.com/Veraticus/cardscope/internal/model"
	"github.com/Veraticus/cardscope/internal/pca"
	"github.com/Veraticus/cardscope/internal/stats"
)

// Document collects every intermediate value the pipeline produces, in the
// order the stages ran. It is the contract between the analysis and the
// rendering layer: Render writes the terminal narrative, WriteHTML the charts.
type Document struct {
	Rows              int
	DroppedRows       int
	Stats             *stats.Summary
	LogStats          *stats.Summary
	Corr              *stats.Correlation
	RawPCA            *pca.Basis
	LogPCA            *pca.Basis
	DegenerateColumns []string
	Dendrogram        *cluster.Dendrogram
	HACCuts           []*model.ClusterAssignment
	KMeans            []*model.ClusterAssignment
	Density           *model.ClusterAssignment
	Summaries         map[string][]ClusterSummary
	Warnings          []string
}

// Render writes the full narrative report to w.
func (d *Document) Render(w io.Writer) error {
	fmt.Fprintln(w, cli.FormatTitle("Credit-card behavioral segmentation"))
	fmt.Fprintf(w, "%d records analyzed; %d rows dropped for missing values.\n\n", d.Rows, d.DroppedRows)

	if len(d.DegenerateColumns) > 0 {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf(
			"Columns excluded from standardization (zero variance): %s",
			strings.Join(d.DegenerateColumns, ", "))))
		fmt.Fprintln(w)
	}
	for _, warning := range d.Warnings {
		fmt.Fprintln(w, cli.FormatWarning(warning))
	}
	if len(d.Warnings) > 0 {
		fmt.Fprintln(w)
	}

	if d.Stats != nil {
		fmt.Fprintln(w, cli.FormatSection("Descriptive statistics"))
		RenderStatsTable(w, d.Stats)
		fmt.Fprintln(w, d.skewnessNarrative())
		fmt.Fprintln(w)
	}

	if d.LogStats != nil {
		fmt.Fprintln(w, cli.FormatSection("After log1p transform"))
		RenderStatsTable(w, d.LogStats)
		fmt.Fprintln(w)
	}

	if d.Corr != nil {
		fmt.Fprintln(w, cli.FormatSection("Pearson correlation matrix"))
		RenderCorrelationTable(w, d.Corr)
		fmt.Fprintln(w)
	}

	if d.RawPCA != nil {
		fmt.Fprintln(w, cli.FormatSection("PCA on raw scaled data"))
		RenderExplainedVariance(w, d.RawPCA)
		fmt.Fprintln(w)
	}
	if d.LogPCA != nil {
		fmt.Fprintln(w, cli.FormatSection("PCA on log-scaled data"))
		RenderExplainedVariance(w, d.LogPCA)
		fmt.Fprintln(w)
	}

	if d.Dendrogram != nil && len(d.HACCuts) > 0 {
		fmt.Fprintln(w, cli.FormatSection("Hierarchical clustering (Ward linkage)"))
		fmt.Fprintf(w, "Dendrogram over %d records, final merge height %.2f.\n", d.Dendrogram.NumLeaves(), d.Dendrogram.MaxHeight())
		RenderCutComparison(w, d.HACCuts)
		fmt.Fprintln(w)
	}

	for _, a := range d.KMeans {
		fmt.Fprintln(w, cli.FormatSection(fmt.Sprintf("Partition clustering, %s", a.Name())))
		if summaries, ok := d.Summaries[a.Name()]; ok {
			RenderClusterSummaries(w, summaries)
		}
		fmt.Fprintln(w)
	}

	if d.Density != nil {
		fmt.Fprintln(w, cli.FormatSection(fmt.Sprintf("Density clustering, %s", d.Density.Name())))
		fmt.Fprintln(w, cli.FormatInfo(d.densityNarrative()))
		if summaries, ok := d.Summaries[d.Density.Name()]; ok {
			RenderClusterSummaries(w, summaries)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, cli.RenderBox("Run summary", d.runSummary()))

	return nil
}

func (d *Document) runSummary() string {
	methods := len(d.KMeans) + len(d.HACCuts)
	if d.Density != nil {
		methods++
	}
	return fmt.Sprintf(
		"%d records analyzed, %d dropped\n%d cluster assignments produced\n%d warnings",
		d.Rows, d.DroppedRows, methods, len(d.Warnings))
}

// skewnessNarrative summarizes how skewed the monetary columns are, the
// motivation for the log1p transform.
func (d *Document) skewnessNarrative() string {
	worst := ""
	max := 0.0
	for _, c := range d.Stats.Columns {
		if c.Skewness > max {
			max = c.Skewness
			worst = c.Name
		}
	}
	if worst == "" {
		return "No right-skewed columns detected."
	}
	return fmt.Sprintf(
		"Monetary and count columns are heavily right-skewed (worst: %s at %.1f); distance-based methods run on log1p-compressed values.",
		worst, max)
}

func (d *Document) densityNarrative() string {
	noise := d.Density.NoiseCount()
	total := len(d.Density.Labels)
	pct := 100 * float64(noise) / float64(total)
	return fmt.Sprintf(
		"%d clusters found; %d of %d records (%.1f%%) left unclassified. Density methods struggle on this dataset's uneven cluster density; included for comparison.",
		d.Density.NumClusters(), noise, total, pct)
}
