package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/cardscope/internal/cli"
	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/config"
	"github.com/Veraticus/cardscope/internal/pipeline"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <csv>",
		Short: "Run the full segmentation pipeline",
		Long: `Run every analysis stage over the given CSV: descriptive statistics,
log1p transform, PCA on raw and log-scaled data, Ward hierarchical
clustering with several dendrogram cuts, k-means for each configured k,
and HDBSCAN for comparison. Renders the narrative report to stdout and
writes the chart document to an HTML file.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	// Flags
	cmd.Flags().Int64("seed", 42, "PRNG seed for k-means initialization")
	cmd.Flags().IntSlice("k", []int{4, 6, 7}, "k values for k-means")
	cmd.Flags().Int("min-cluster-size", 15, "minimum cluster size for density clustering")
	cmd.Flags().StringP("output", "o", "report.html", "path for the HTML chart document")
	cmd.Flags().Bool("no-progress", false, "disable the agglomeration progress bar")

	// Bind to viper
	_ = viper.BindPFlag("analysis.seed", cmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("analysis.ks", cmd.Flags().Lookup("k"))
	_ = viper.BindPFlag("analysis.min_cluster_size", cmd.Flags().Lookup("min-cluster-size"))
	_ = viper.BindPFlag("analysis.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("analysis.no_progress", cmd.Flags().Lookup("no-progress"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := pipeline.DefaultConfig()
	cfg.InputPath = config.ExpandPath(args[0])
	cfg.Seed = viper.GetInt64("analysis.seed")
	if ks := viper.GetIntSlice("analysis.ks"); len(ks) > 0 {
		cfg.Ks = ks
	}
	if m := viper.GetInt("analysis.min_cluster_size"); m > 0 {
		cfg.MinClusterSize = m
	}
	if !viper.GetBool("analysis.no_progress") {
		cfg.Progress = os.Stderr
	}

	runner, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to configure pipeline: %w", err)
	}

	slog.Info(cli.FormatTitle("Analyzing account activity..."))

	doc, err := runner.Run(cmd.Context())
	if err != nil {
		return common.NewUserError("analysis did not complete", err)
	}

	if err := doc.Render(os.Stdout); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	output := config.ExpandPath(viper.GetString("analysis.output"))
	if err := doc.WriteHTML(output); err != nil {
		return fmt.Errorf("failed to write charts: %w", err)
	}
	slog.Info(cli.FormatSuccess("Report written"), "charts", output)

	return nil
}
