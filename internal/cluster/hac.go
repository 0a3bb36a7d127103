package cluster

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/cardscope/internal/common"
	"github.com/Veraticus/cardscope/internal/model"
)

// Merge records one agglomeration step. A and B are representative row
// indices of the two merged clusters; Height is the Ward criterion value at
// the merge and Size the cardinality of the resulting cluster.
type Merge struct {
	A      int
	B      int
	Height float64
	Size   int
}

// Dendrogram is the full merge tree of a hierarchical clustering run, with
// merges ordered by non-decreasing height.
type Dendrogram struct {
	ids    []string
	merges []Merge
}

// Ward builds the complete Ward-linkage dendrogram over Euclidean distances
// using the nearest-neighbor-chain algorithm, which agglomerates in O(n²)
// distance updates instead of rescanning the full matrix per merge. When
// progress is non-nil a progress bar is rendered to it; with ~9k rows the
// merge loop is the slowest part of the whole pipeline.
func Ward(tm *model.TransformedMatrix, progress io.Writer) (*Dendrogram, error) {
	n := tm.NumRows()
	if n == 0 {
		return nil, fmt.Errorf("ward: %w", common.ErrEmptyDataset)
	}

	d := &Dendrogram{ids: append([]string(nil), tm.IDs...)}
	if n == 1 {
		return d, nil
	}

	// Condensed upper-triangular matrix of squared Euclidean distances,
	// updated in place by the Lance-Williams recurrence.
	dist := newCondensed(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist.set(i, j, sqDist(tm.Values[i], tm.Values[j]))
		}
	}

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions(n-1,
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("agglomerating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	active := make([]bool, n)
	size := make([]int, n)
	for i := range active {
		active[i] = true
		size[i] = 1
	}

	merges := make([]Merge, 0, n-1)
	chain := make([]int, 0, n)

	for len(merges) < n-1 {
		if len(chain) == 0 {
			for i := 0; i < n; i++ {
				if active[i] {
					chain = append(chain, i)
					break
				}
			}
		}

		a := chain[len(chain)-1]

		// Nearest active neighbor of the chain tip. Ties must prefer the
		// chain predecessor or equal distances could ping-pong forever;
		// otherwise they resolve to the lowest index for determinism.
		b := -1
		best := math.MaxFloat64
		prev := -1
		if len(chain) >= 2 {
			prev = chain[len(chain)-2]
		}
		for j := 0; j < n; j++ {
			if !active[j] || j == a {
				continue
			}
			dj := dist.at(a, j)
			if dj < best || (dj == best && j == prev) {
				best = dj
				b = j
			}
		}

		if len(chain) >= 2 && b == chain[len(chain)-2] {
			// Reciprocal nearest neighbors: merge a and b.
			chain = chain[:len(chain)-2]
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}

			merges = append(merges, Merge{
				A:      lo,
				B:      hi,
				Height: math.Sqrt(best),
				Size:   size[lo] + size[hi],
			})

			// Lance-Williams update for Ward linkage: the merged cluster
			// keeps lo as its representative.
			na, nb := float64(size[lo]), float64(size[hi])
			for k := 0; k < n; k++ {
				if !active[k] || k == lo || k == hi {
					continue
				}
				nk := float64(size[k])
				updated := ((na+nk)*dist.at(lo, k) + (nb+nk)*dist.at(hi, k) - nk*best) / (na + nb + nk)
				dist.set(lo, k, updated)
			}

			active[hi] = false
			size[lo] += size[hi]

			if bar != nil {
				_ = bar.Add(1)
			}
		} else {
			chain = append(chain, b)
		}
	}

	// The chain algorithm emits merges out of height order; a dendrogram
	// wants them globally sorted, which Ward's reducibility makes valid.
	sort.SliceStable(merges, func(i, j int) bool {
		return merges[i].Height < merges[j].Height
	})
	d.merges = merges

	if !d.Monotonic() {
		return nil, fmt.Errorf("ward: merge heights are not monotone: %w", common.ErrDecomposition)
	}
	return d, nil
}

// NumLeaves returns the number of original records in the tree.
func (d *Dendrogram) NumLeaves() int {
	return len(d.ids)
}

// Merges returns the merge sequence in height order.
func (d *Dendrogram) Merges() []Merge {
	return append([]Merge(nil), d.merges...)
}

// Heights returns the merge heights in order.
func (d *Dendrogram) Heights() []float64 {
	out := make([]float64, len(d.merges))
	for i, m := range d.merges {
		out[i] = m.Height
	}
	return out
}

// MaxHeight returns the height of the final merge, or 0 for a trivial tree.
func (d *Dendrogram) MaxHeight() float64 {
	if len(d.merges) == 0 {
		return 0
	}
	return d.merges[len(d.merges)-1].Height
}

// Monotonic reports whether merge heights are non-decreasing along the tree.
// A violation means the linkage computation is buggy, not the data.
func (d *Dendrogram) Monotonic() bool {
	for i := 1; i < len(d.merges); i++ {
		if d.merges[i].Height < d.merges[i-1].Height {
			return false
		}
	}
	return true
}

// Cut slices the tree at the given height: every merge performed at a height
// ≤ the threshold is applied, and the resulting connected components are the
// clusters. Labels are assigned 1..m in order of first row appearance.
func (d *Dendrogram) Cut(height float64) (*model.ClusterAssignment, error) {
	applied := 0
	for _, m := range d.merges {
		if m.Height > height {
			break
		}
		applied++
	}
	return d.assign(applied, fmt.Sprintf("h=%.4g", height))
}

// CutK slices the tree so that exactly k clusters remain.
func (d *Dendrogram) CutK(k int) (*model.ClusterAssignment, error) {
	n := d.NumLeaves()
	if k < 1 || k > n {
		return nil, fmt.Errorf("cut: k=%d out of range [1, %d]: %w", k, n, common.ErrInvalidConfig)
	}
	return d.assign(n-k, fmt.Sprintf("k=%d", k))
}

func (d *Dendrogram) assign(applied int, params string) (*model.ClusterAssignment, error) {
	parent := make([]int, d.NumLeaves())
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, m := range d.merges[:applied] {
		ra, rb := find(m.A), find(m.B)
		if ra != rb {
			parent[rb] = ra
		}
	}

	labels := make([]int, d.NumLeaves())
	next := 1
	byRoot := make(map[int]int)
	for i := range labels {
		root := find(i)
		label, ok := byRoot[root]
		if !ok {
			label = next
			byRoot[root] = label
			next++
		}
		labels[i] = label
	}

	return model.NewClusterAssignment("ward", params, d.ids, labels)
}

// condensed stores the strict upper triangle of an n×n symmetric matrix.
type condensed struct {
	n    int
	data []float64
}

func newCondensed(n int) *condensed {
	return &condensed{n: n, data: make([]float64, n*(n-1)/2)}
}

func (c *condensed) index(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return i*(2*c.n-i-3)/2 + j - 1
}

func (c *condensed) at(i, j int) float64 {
	return c.data[c.index(i, j)]
}

func (c *condensed) set(i, j int, v float64) {
	c.data[c.index(i, j)] = v
}
