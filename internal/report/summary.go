// Package report joins cluster assignments back to the original records and
// renders the analysis as terminal tables plus an HTML chart document.
package report

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/cardscope/internal/model"
)

// ClusterSummary is a per-cluster aggregate over the original, untransformed
// records: size, mean balance, mean purchases, and their ratio. The ratio is
// undefined when mean balance is zero; RatioDefined distinguishes that from
// a genuine zero, and renderers must not coerce it.
type ClusterSummary struct {
	Label         int
	Size          int
	MeanBalance   float64
	MeanPurchases float64
	Ratio         float64
	RatioDefined  bool
}

// Summarize inner-joins an assignment to the dataset on identifier and
// aggregates per cluster. Rows without an assignment (earlier row-deletion
// asymmetries) are dropped and counted, never silently propagated; the count
// is logged and returned.
func Summarize(a *model.ClusterAssignment, ds *model.Dataset) ([]ClusterSummary, int, error) {
	balIdx := ds.ColumnIndex("BALANCE")
	purIdx := ds.ColumnIndex("PURCHASES")
	if balIdx < 0 || purIdx < 0 {
		return nil, 0, fmt.Errorf("summarize %s: dataset lacks BALANCE or PURCHASES", a.Name())
	}

	type accum struct {
		size      int
		balance   float64
		purchases float64
	}
	groups := make(map[int]*accum)

	dropped := 0
	for i, id := range ds.IDs {
		label, ok := a.Label(id)
		if !ok {
			dropped++
			continue
		}
		g := groups[label]
		if g == nil {
			g = &accum{}
			groups[label] = g
		}
		g.size++
		g.balance += ds.Values[i][balIdx]
		g.purchases += ds.Values[i][purIdx]
	}

	if dropped > 0 {
		slog.Info("Dropped unassigned rows from cluster summary",
			"assignment", a.Name(),
			"dropped", dropped)
	}

	labels := make([]int, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	summaries := make([]ClusterSummary, 0, len(labels))
	for _, label := range labels {
		g := groups[label]
		s := ClusterSummary{
			Label:         label,
			Size:          g.size,
			MeanBalance:   g.balance / float64(g.size),
			MeanPurchases: g.purchases / float64(g.size),
		}
		if s.MeanBalance != 0 {
			s.Ratio = s.MeanPurchases / s.MeanBalance
			s.RatioDefined = true
		}
		summaries = append(summaries, s)
	}

	return summaries, dropped, nil
}
