package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cardscope/internal/cli"
	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/config"
	"github.com/Veraticus/cardscope/internal/dataset"
	"github.com/Veraticus/cardscope/internal/pca"
	"github.com/Veraticus/cardscope/internal/report"
	"github.com/Veraticus/cardscope/internal/transform"
)

func pcaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pca <csv>",
		Short: "Print explained variance per principal component",
		Long: `Compute PCA on both the scaled raw data and the scaled log1p data and
print marginal and cumulative explained-variance fractions per component.`,
		Args: cobra.ExactArgs(1),
		RunE: runPCA,
	}
}

func runPCA(_ *cobra.Command, args []string) error {
	ds, _, err := dataset.Load(config.ExpandPath(args[0]))
	if err != nil {
		return common.NewUserError("could not load the accounts file", err)
	}

	rawScaled, err := transform.Standardize(ds)
	if err != nil {
		if warned := warnDegenerate(err); !warned {
			return fmt.Errorf("failed to standardize raw data: %w", err)
		}
	}
	logScaled, err := transform.Transform(ds, true)
	if err != nil {
		if warned := warnDegenerate(err); !warned {
			return fmt.Errorf("failed to transform data: %w", err)
		}
	}

	rawBasis, err := pca.Compute(rawScaled)
	if err != nil {
		return fmt.Errorf("pca on raw data failed: %w", err)
	}
	logBasis, err := pca.Compute(logScaled)
	if err != nil {
		return fmt.Errorf("pca on log data failed: %w", err)
	}

	fmt.Println(cli.FormatSection("PCA on raw scaled data"))
	report.RenderExplainedVariance(os.Stdout, rawBasis)
	fmt.Println()
	fmt.Println(cli.FormatSection("PCA on log-scaled data"))
	report.RenderExplainedVariance(os.Stdout, logBasis)

	return nil
}
