package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cardscope/internal/cli"
	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/config"
	"github.com/Veraticus/cardscope/internal/dataset"
	"github.com/Veraticus/cardscope/internal/report"
	"github.com/Veraticus/cardscope/internal/stats"
)

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <csv>",
		Short: "Print descriptive statistics for the dataset",
		Long: `Load and clean the CSV, then print per-column summary statistics,
skewness, and the full Pearson correlation matrix.`,
		Args: cobra.ExactArgs(1),
		RunE: runDescribe,
	}
}

func runDescribe(_ *cobra.Command, args []string) error {
	ds, dropped, err := dataset.Load(config.ExpandPath(args[0]))
	if err != nil {
		return common.NewUserError("could not load the accounts file", err)
	}

	summary, err := stats.Describe(ds)
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}
	corr, err := stats.Correlate(ds)
	if err != nil {
		return fmt.Errorf("failed to compute correlations: %w", err)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Descriptive statistics (%d rows, %d dropped)", ds.NumRows(), dropped)))
	report.RenderStatsTable(os.Stdout, summary)
	fmt.Println()
	fmt.Println(cli.FormatSection("Pearson correlation matrix"))
	report.RenderCorrelationTable(os.Stdout, corr)

	return nil
}
