package report

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Veraticus/cardscope/internal/model"
	"github.com/Veraticus/cardscope/internal/pca"
)

// ScatterChart projects every record onto the first two principal components
// and colors it by cluster label, one series per cluster.
func ScatterChart(title string, basis *pca.Basis, a *model.ClusterAssignment) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PC1"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PC2"}),
	)

	series := make(map[int][]opts.ScatterData)
	for i := range a.Labels {
		label := a.Labels[i]
		series[label] = append(series[label], opts.ScatterData{
			Value:      []any{basis.Score(i, 0), basis.Score(i, 1)},
			SymbolSize: 5,
		})
	}

	labels := make([]int, 0, len(series))
	for label := range series {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	for _, label := range labels {
		name := fmt.Sprintf("Cluster %d", label)
		if label == model.NoiseLabel {
			name = "Noise"
		}
		scatter.AddSeries(name, series[label])
	}

	return scatter
}

// ScreeChart renders the explained-variance fraction per component.
func ScreeChart(title string, basis *pca.Basis) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Explained variance"}),
	)

	axis := make([]string, len(basis.Explained))
	marginal := make([]opts.BarData, len(basis.Explained))
	cumulative := make([]opts.BarData, len(basis.Cumulative))
	for i := range basis.Explained {
		axis[i] = fmt.Sprintf("PC%d", i+1)
		marginal[i] = opts.BarData{Value: basis.Explained[i]}
		cumulative[i] = opts.BarData{Value: basis.Cumulative[i]}
	}

	bar.SetXAxis(axis).
		AddSeries("marginal", marginal).
		AddSeries("cumulative", cumulative)

	return bar
}

// SizeChart renders per-cluster record counts for one assignment.
func SizeChart(title string, summaries []ClusterSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Records"}),
	)

	axis := make([]string, len(summaries))
	sizes := make([]opts.BarData, len(summaries))
	for i, s := range summaries {
		axis[i] = fmt.Sprintf("cluster %d", s.Label)
		if s.Label == model.NoiseLabel {
			axis[i] = "noise"
		}
		sizes[i] = opts.BarData{Value: s.Size}
	}

	bar.SetXAxis(axis).AddSeries("size", sizes)
	return bar
}

// WriteHTML renders the chart page to path.
func (d *Document) WriteHTML(path string) error {
	page := components.NewPage()
	page.PageTitle = "Credit-card behavioral segments"

	if d.LogPCA != nil {
		page.AddCharts(ScreeChart("Explained variance (log-scaled data)", d.LogPCA))
	}
	if d.RawPCA != nil {
		page.AddCharts(ScreeChart("Explained variance (raw-scaled data)", d.RawPCA))
	}
	if d.LogPCA != nil {
		for _, a := range d.KMeans {
			page.AddCharts(ScatterChart(fmt.Sprintf("k-means %s on PC1×PC2", a.Params), d.LogPCA, a))
		}
		if d.Density != nil {
			page.AddCharts(ScatterChart("HDBSCAN on PC1×PC2", d.LogPCA, d.Density))
		}
	}
	for _, a := range d.KMeans {
		if summaries, ok := d.Summaries[a.Name()]; ok {
			page.AddCharts(SizeChart(fmt.Sprintf("Cluster sizes, %s", a.Name()), summaries))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close report file", "path", path, "error", closeErr)
		}
	}()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}
