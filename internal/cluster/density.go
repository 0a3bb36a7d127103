package cluster

import (
	"fmt"

	"github.com/humilityai/hdbscan"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

// Density runs HDBSCAN over the matrix rows: a hierarchy of density-based
// clusters built from mutual reachability, flattened by a stability-optimizing
// cut. Rows outside any dense region keep model.NoiseLabel.
//
// On the credit-card data this is expected to produce a few very small
// clusters with most rows unclassified; that is the documented limitation of
// density methods on data with heterogeneous cluster density, and the report
// presents it as such rather than working around it.
func Density(tm *model.TransformedMatrix, minClusterSize int) (*model.ClusterAssignment, error) {
	if tm.NumRows() == 0 {
		return nil, fmt.Errorf("density: %w", common.ErrEmptyDataset)
	}
	if minClusterSize < 2 {
		return nil, fmt.Errorf("density: min cluster size must be at least 2, got %d: %w", minClusterSize, common.ErrInvalidConfig)
	}

	clustering, err := hdbscan.NewClustering(tm.Rows(), minClusterSize)
	if err != nil {
		return nil, fmt.Errorf("density: %w", err)
	}

	if err := clustering.Run(hdbscan.EuclideanDistance, hdbscan.VarianceScore, false); err != nil {
		return nil, fmt.Errorf("density: %w", err)
	}

	labels := make([]int, tm.NumRows())
	for ci, c := range clustering.Clusters {
		for _, point := range c.Points {
			labels[point] = ci + 1
		}
	}

	return model.NewClusterAssignment("hdbscan", fmt.Sprintf("minPts=%d", minClusterSize), tm.IDs, labels)
}
