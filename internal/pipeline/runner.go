// Package pipeline orchestrates the analysis stages: load → describe →
// transform → PCA → clustering → report assembly. Stages run strictly
// forward; each fully materializes its output before the next begins, and
// cluster assignments are the only values joined back to the original table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/cardscope/internal/cluster"
	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/dataset"
	"github.com/Veraticus/cardscope/internal/model"
	"github.com/Veraticus/cardscope/internal/pca"
	"github.com/Veraticus/cardscope/internal/report"
	"github.com/Veraticus/cardscope/internal/stats"
	"github.com/Veraticus/cardscope/internal/transform"
)

// Config holds the analysis hyperparameters. Every run is deterministic
// given the same config and input file.
type Config struct {
	InputPath      string
	Seed           int64
	Ks             []int
	CutFractions   []float64 // dendrogram cut heights as fractions of the max merge height
	MinClusterSize int
	MaxIterations  int
	Progress       io.Writer // nil disables the agglomeration progress bar
}

// DefaultConfig returns the reference analysis parameters: k ∈ {4, 6, 7},
// three dendrogram cuts, and a fixed seed for reproducible reporting.
func DefaultConfig() Config {
	return Config{
		Seed:           42,
		Ks:             []int{4, 6, 7},
		CutFractions:   []float64{0.25, 0.5, 0.75},
		MinClusterSize: 15,
		MaxIterations:  cluster.DefaultMaxIterations,
	}
}

// Runner executes the pipeline once. It owns the in-memory dataset
// exclusively; every stage produces a new derived value and nothing is
// mutated in place.
type Runner struct {
	config Config
}

// New creates a runner after validating the configuration.
func New(config Config) (*Runner, error) {
	if config.InputPath == "" {
		return nil, fmt.Errorf("input path is required: %w", common.ErrInvalidConfig)
	}
	if len(config.Ks) == 0 {
		return nil, fmt.Errorf("at least one k is required: %w", common.ErrInvalidConfig)
	}
	for _, k := range config.Ks {
		if k < 1 {
			return nil, fmt.Errorf("k must be positive, got %d: %w", k, common.ErrInvalidConfig)
		}
	}
	for _, f := range config.CutFractions {
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("cut fraction must be in [0,1], got %g: %w", f, common.ErrInvalidConfig)
		}
	}
	if config.MaxIterations < 1 {
		return nil, fmt.Errorf("max iterations must be positive, got %d: %w", config.MaxIterations, common.ErrInvalidConfig)
	}
	return &Runner{config: config}, nil
}

// Run executes every stage and assembles the report document. Any stage
// error fails the whole run; there is no partial success and no retry.
func (r *Runner) Run(ctx context.Context) (*report.Document, error) {
	doc := &report.Document{Summaries: make(map[string][]report.ClusterSummary)}

	// Stage 1: load and clean.
	ds, dropped, err := dataset.Load(r.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("load stage: %w", err)
	}
	doc.Rows = ds.NumRows()
	doc.DroppedRows = dropped

	if err := stageBoundary(ctx, "describe"); err != nil {
		return nil, err
	}

	// Stage 2: descriptive statistics.
	if doc.Stats, err = stats.Describe(ds); err != nil {
		return nil, fmt.Errorf("describe stage: %w", err)
	}
	if doc.Corr, err = stats.Correlate(ds); err != nil {
		return nil, fmt.Errorf("describe stage: %w", err)
	}

	if err := stageBoundary(ctx, "transform"); err != nil {
		return nil, err
	}

	// Stage 3: transforms. The log-only matrix feeds the post-transform
	// summary; the standardized variants feed PCA and clustering.
	logOnly, err := transform.Transform(ds, false)
	if err != nil {
		return nil, fmt.Errorf("transform stage: %w", err)
	}
	logDS := &model.Dataset{IDs: logOnly.IDs, Columns: logOnly.Columns, Values: logOnly.Values}
	if doc.LogStats, err = stats.Describe(logDS); err != nil {
		return nil, fmt.Errorf("transform stage: %w", err)
	}

	scaled, err := r.standardized(ds)
	if err != nil {
		return nil, err
	}
	rawScaled, logScaled := scaled[0], scaled[1]
	doc.DegenerateColumns = degenerateColumns(ds, logScaled)

	if err := stageBoundary(ctx, "pca"); err != nil {
		return nil, err
	}

	// Stage 4: PCA on both variants, for comparison.
	if doc.RawPCA, err = pca.Compute(rawScaled); err != nil {
		return nil, fmt.Errorf("pca stage (raw): %w", err)
	}
	if doc.LogPCA, err = pca.Compute(logScaled); err != nil {
		return nil, fmt.Errorf("pca stage (log): %w", err)
	}
	slog.Info("Computed principal components",
		"raw_pc1", fmt.Sprintf("%.3f", doc.RawPCA.Explained[0]),
		"log_pc1", fmt.Sprintf("%.3f", doc.LogPCA.Explained[0]))

	if err := stageBoundary(ctx, "hierarchical"); err != nil {
		return nil, err
	}

	// Stage 5a: hierarchical clustering and cuts.
	if doc.Dendrogram, err = cluster.Ward(logScaled, r.config.Progress); err != nil {
		return nil, fmt.Errorf("hierarchical stage: %w", err)
	}
	maxHeight := doc.Dendrogram.MaxHeight()
	for _, f := range r.config.CutFractions {
		cut, cutErr := doc.Dendrogram.Cut(f * maxHeight)
		if cutErr != nil {
			return nil, fmt.Errorf("hierarchical stage: %w", cutErr)
		}
		doc.HACCuts = append(doc.HACCuts, cut)
		slog.Info("Cut dendrogram", "height", f*maxHeight, "clusters", cut.NumClusters())
	}

	if err := stageBoundary(ctx, "kmeans"); err != nil {
		return nil, err
	}

	// Stage 5b: k-means for each k.
	for _, k := range r.config.Ks {
		assignment, kmErr := cluster.KMeansWithIterations(logScaled, k, r.config.Seed, r.config.MaxIterations)
		if kmErr != nil {
			var convErr *common.ConvergenceError
			if !errors.As(kmErr, &convErr) {
				return nil, fmt.Errorf("kmeans stage (k=%d): %w", k, kmErr)
			}
			doc.Warnings = append(doc.Warnings, kmErr.Error())
			slog.Warn("k-means hit iteration bound", "k", k, "iterations", convErr.Iterations)
		}
		doc.KMeans = append(doc.KMeans, assignment)
	}

	if err := stageBoundary(ctx, "density"); err != nil {
		return nil, err
	}

	// Stage 5c: density clustering for comparison.
	if doc.Density, err = cluster.Density(logScaled, r.config.MinClusterSize); err != nil {
		return nil, fmt.Errorf("density stage: %w", err)
	}
	slog.Info("Density clustering finished",
		"clusters", doc.Density.NumClusters(),
		"noise", doc.Density.NoiseCount())

	if err := stageBoundary(ctx, "report"); err != nil {
		return nil, err
	}

	// Stage 6: join assignments back to the original records.
	assignments := make([]*model.ClusterAssignment, 0, len(doc.KMeans)+len(doc.HACCuts)+1)
	assignments = append(assignments, doc.KMeans...)
	assignments = append(assignments, doc.HACCuts...)
	assignments = append(assignments, doc.Density)
	for _, a := range assignments {
		summaries, _, sumErr := report.Summarize(a, ds)
		if sumErr != nil {
			return nil, fmt.Errorf("report stage: %w", sumErr)
		}
		doc.Summaries[a.Name()] = summaries
	}

	return doc, nil
}

// standardized produces the raw-scaled and log-scaled matrices. Degenerate
// columns are excluded and surfaced as a warning, not a failure: the run
// continues on the surviving columns.
func (r *Runner) standardized(ds *model.Dataset) ([2]*model.TransformedMatrix, error) {
	var out [2]*model.TransformedMatrix

	rawScaled, err := transform.Standardize(ds)
	if err != nil && !errors.Is(err, common.ErrDegenerateColumn) {
		return out, fmt.Errorf("transform stage: %w", err)
	}
	logScaled, err := transform.Transform(ds, true)
	if err != nil {
		var degErr *common.DegenerateColumnError
		if !errors.As(err, &degErr) {
			return out, fmt.Errorf("transform stage: %w", err)
		}
		slog.Warn("Excluded degenerate columns from standardization", "columns", degErr.Columns)
	}

	out[0], out[1] = rawScaled, logScaled
	return out, nil
}

func degenerateColumns(ds *model.Dataset, scaled *model.TransformedMatrix) []string {
	kept := make(map[string]struct{}, len(scaled.Columns))
	for _, c := range scaled.Columns {
		kept[c] = struct{}{}
	}
	var dropped []string
	for _, c := range ds.Columns {
		if _, ok := kept[c]; !ok {
			dropped = append(dropped, c)
		}
	}
	return dropped
}

func stageBoundary(ctx context.Context, next string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("canceled before %s stage: %w", next, err)
	}
	return nil
}
