// Package pca computes a principal-component basis from a transformed matrix
// via gonum's singular value decomposition of the centered data.
package pca

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

// Basis holds the principal components of one matrix variant: loadings
// (one eigenvector per component, columns of Loadings), explained-variance
// fractions in descending order, and the per-record scores. It is recomputed
// fresh for each variant and never persisted.
type Basis struct {
	Columns    []string
	Loadings   *mat.Dense // p×p; column j is the loading vector of component j
	Variances  []float64  // eigenvalues of the covariance of the input
	Explained  []float64  // variance fractions, non-increasing, summing to 1
	Cumulative []float64
	Scores     *mat.Dense // n×p; row i is record i projected onto each component
}

// NumComponents returns the number of components in the basis.
func (b *Basis) NumComponents() int {
	return len(b.Explained)
}

// Compute derives the principal-component basis of the given matrix. When the
// input is standardized this is equivalent to eigendecomposition of the
// correlation matrix. Components come back ordered by descending explained
// variance; degenerate ties keep whatever order the decomposition produced.
func Compute(tm *model.TransformedMatrix) (*Basis, error) {
	n, p := tm.NumRows(), tm.NumCols()
	if n < 2 || p == 0 {
		return nil, fmt.Errorf("pca: need at least 2 rows and 1 column, got %dx%d: %w", n, p, common.ErrEmptyDataset)
	}

	x := tm.Matrix()

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("pca: %w", common.ErrDecomposition)
	}

	loadings := mat.NewDense(p, p, nil)
	pc.VectorsTo(loadings)
	variances := pc.VarsTo(nil)

	total := 0.0
	for _, v := range variances {
		total += v
	}
	if total == 0 {
		return nil, fmt.Errorf("pca: total variance is zero: %w", common.ErrDecomposition)
	}

	explained := make([]float64, len(variances))
	cumulative := make([]float64, len(variances))
	running := 0.0
	for i, v := range variances {
		explained[i] = v / total
		running += explained[i]
		cumulative[i] = running
	}

	// Scores are the centered data projected onto the loading vectors.
	// PrincipalComponents centers internally but does not expose the
	// projection, so center again here.
	centered := mat.NewDense(n, p, nil)
	for j := 0; j < p; j++ {
		m := stat.Mean(mat.Col(nil, j, x), nil)
		for i := 0; i < n; i++ {
			centered.Set(i, j, x.At(i, j)-m)
		}
	}
	scores := mat.NewDense(n, p, nil)
	scores.Mul(centered, loadings)

	return &Basis{
		Columns:    append([]string(nil), tm.Columns...),
		Loadings:   loadings,
		Variances:  variances,
		Explained:  explained,
		Cumulative: cumulative,
		Scores:     scores,
	}, nil
}

// Score returns record i's projection onto component j.
func (b *Basis) Score(i, j int) float64 {
	return b.Scores.At(i, j)
}
