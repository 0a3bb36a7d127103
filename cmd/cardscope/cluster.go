package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/cardscope/internal/cli"
	"github.com/Veraticus/cardscope/internal/cluster"
	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/config"
	"github.com/Veraticus/cardscope/internal/dataset"
	"github.com/Veraticus/cardscope/internal/model"
	"github.com/Veraticus/cardscope/internal/report"
	"github.com/Veraticus/cardscope/internal/transform"
)

func clusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Run a single clustering procedure",
	}

	cmd.AddCommand(clusterKMeansCmd())
	cmd.AddCommand(clusterHACCmd())
	cmd.AddCommand(clusterDensityCmd())

	return cmd
}

func clusterKMeansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kmeans <csv>",
		Short: "Partition accounts with k-means",
		Args:  cobra.ExactArgs(1),
		RunE:  runClusterKMeans,
	}

	cmd.Flags().IntP("k", "k", 4, "number of clusters")
	cmd.Flags().Int64("seed", 42, "PRNG seed for center initialization")
	_ = viper.BindPFlag("cluster.k", cmd.Flags().Lookup("k"))
	_ = viper.BindPFlag("cluster.seed", cmd.Flags().Lookup("seed"))

	return cmd
}

func runClusterKMeans(_ *cobra.Command, args []string) error {
	ds, tm, err := loadTransformed(args[0])
	if err != nil {
		return err
	}

	k := viper.GetInt("cluster.k")
	assignment, err := cluster.KMeans(tm, k, viper.GetInt64("cluster.seed"))
	if err != nil && !errors.Is(err, common.ErrNoConvergence) {
		return fmt.Errorf("k-means failed: %w", err)
	}
	if err != nil {
		fmt.Println(cli.FormatWarning(err.Error()))
	}

	return printSummaries(assignment, ds)
}

func clusterHACCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hac <csv>",
		Short: "Build a Ward-linkage dendrogram and cut it",
		Args:  cobra.ExactArgs(1),
		RunE:  runClusterHAC,
	}

	cmd.Flags().Float64Slice("cut", []float64{0.25, 0.5, 0.75}, "cut heights as fractions of the max merge height")
	_ = viper.BindPFlag("cluster.cuts", cmd.Flags().Lookup("cut"))

	return cmd
}

func runClusterHAC(_ *cobra.Command, args []string) error {
	_, tm, err := loadTransformed(args[0])
	if err != nil {
		return err
	}

	dendrogram, err := cluster.Ward(tm, os.Stderr)
	if err != nil {
		return fmt.Errorf("hierarchical clustering failed: %w", err)
	}

	maxHeight := dendrogram.MaxHeight()
	var cuts []*model.ClusterAssignment
	for _, f := range cast.ToFloat64Slice(viper.Get("cluster.cuts")) {
		cut, cutErr := dendrogram.Cut(f * maxHeight)
		if cutErr != nil {
			return fmt.Errorf("cut failed: %w", cutErr)
		}
		cuts = append(cuts, cut)
	}

	fmt.Println(cli.FormatSection("Hierarchical clustering (Ward linkage)"))
	fmt.Printf("Dendrogram over %d records, final merge height %.2f.\n", dendrogram.NumLeaves(), maxHeight)
	report.RenderCutComparison(os.Stdout, cuts)

	return nil
}

func clusterDensityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "density <csv>",
		Short: "Cluster accounts by density with HDBSCAN",
		Args:  cobra.ExactArgs(1),
		RunE:  runClusterDensity,
	}

	cmd.Flags().Int("min-cluster-size", 15, "minimum cluster size")
	_ = viper.BindPFlag("cluster.min_cluster_size", cmd.Flags().Lookup("min-cluster-size"))

	return cmd
}

func runClusterDensity(_ *cobra.Command, args []string) error {
	ds, tm, err := loadTransformed(args[0])
	if err != nil {
		return err
	}

	assignment, err := cluster.Density(tm, viper.GetInt("cluster.min_cluster_size"))
	if err != nil {
		return fmt.Errorf("density clustering failed: %w", err)
	}

	noise := assignment.NoiseCount()
	if noise > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d records left unclassified", noise)))
	}

	return printSummaries(assignment, ds)
}

func loadTransformed(path string) (*model.Dataset, *model.TransformedMatrix, error) {
	ds, _, err := dataset.Load(config.ExpandPath(path))
	if err != nil {
		return nil, nil, common.NewUserError("could not load the accounts file", err)
	}
	tm, err := transform.Transform(ds, true)
	if err != nil {
		if warned := warnDegenerate(err); !warned {
			return nil, nil, fmt.Errorf("failed to transform data: %w", err)
		}
	}
	return ds, tm, nil
}

func printSummaries(assignment *model.ClusterAssignment, ds *model.Dataset) error {
	summaries, _, err := report.Summarize(assignment, ds)
	if err != nil {
		return fmt.Errorf("failed to summarize clusters: %w", err)
	}

	fmt.Println(cli.FormatSection(fmt.Sprintf("Cluster summary, %s", assignment.Name())))
	report.RenderClusterSummaries(os.Stdout, summaries)
	return nil
}
