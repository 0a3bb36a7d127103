// Package cluster implements the three clustering procedures compared by the
// report: partition clustering (k-means), hierarchical agglomerative
// clustering with Ward linkage, and density-based clustering.
package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

// DefaultMaxIterations bounds the Lloyd's-algorithm loop.
const DefaultMaxIterations = 100

// KMeans partitions the matrix rows into k clusters with Lloyd's algorithm.
// Initial centers are k distinct rows drawn from a PRNG seeded with the given
// seed, so runs are reproducible: the same (seed, k, input) always yields the
// same assignment. Labels are 1..k.
func KMeans(tm *model.TransformedMatrix, k int, seed int64) (*model.ClusterAssignment, error) {
	return KMeansWithIterations(tm, k, seed, DefaultMaxIterations)
}

// KMeansWithIterations is KMeans with an explicit iteration bound. If the
// assignments have not stabilized within maxIter iterations, the current
// assignment is returned together with a ConvergenceError; it is never
// silently truncated.
func KMeansWithIterations(tm *model.TransformedMatrix, k int, seed int64, maxIter int) (*model.ClusterAssignment, error) {
	n, p := tm.NumRows(), tm.NumCols()
	if k < 1 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d: %w", k, common.ErrInvalidConfig)
	}
	if k > n {
		return nil, fmt.Errorf("kmeans: k=%d exceeds row count %d: %w", k, n, common.ErrInvalidConfig)
	}
	if maxIter < 1 {
		return nil, fmt.Errorf("kmeans: maxIter must be positive, got %d: %w", maxIter, common.ErrInvalidConfig)
	}

	rng := rand.New(rand.NewSource(seed))

	// Initialize centers as k distinct rows.
	centers := make([][]float64, k)
	for c, idx := range rng.Perm(n)[:k] {
		centers[c] = append([]float64(nil), tm.Values[idx]...)
	}

	labels := make([]int, n)
	counts := make([]int, k)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, p)
	}

	converged := false
	iterations := 0
	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1
		changed := false

		for i, row := range tm.Values {
			best := 0
			bestDist := math.MaxFloat64
			for c, center := range centers {
				if d := sqDist(row, center); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if labels[i] != best+1 {
				labels[i] = best + 1
				changed = true
			}
		}

		if !changed {
			converged = true
			break
		}

		// Recompute centers as the mean of their assigned rows. A center
		// that lost every row keeps its previous position.
		for c := range sums {
			counts[c] = 0
			for j := range sums[c] {
				sums[c][j] = 0
			}
		}
		for i, row := range tm.Values {
			c := labels[i] - 1
			counts[c]++
			for j, v := range row {
				sums[c][j] += v
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			for j := range centers[c] {
				centers[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	assignment, err := model.NewClusterAssignment("kmeans", fmt.Sprintf("k=%d", k), tm.IDs, labels)
	if err != nil {
		return nil, err
	}

	if !converged {
		return assignment, &common.ConvergenceError{Method: "kmeans", Iterations: iterations}
	}
	return assignment, nil
}

func sqDist(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		d := a[i] - b[i]
		total += d * d
	}
	return total
}
