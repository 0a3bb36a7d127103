package model

import "fmt"

// NoiseLabel marks a record left unclassified by a density-based method.
// Proper cluster labels are small positive integers starting at 1.
const NoiseLabel = 0

// ClusterAssignment maps each record identifier to a cluster label. It is
// produced once per (algorithm, parameter) pair and never mutated; multiple
// assignments coexist and are compared side by side, never merged.
type ClusterAssignment struct {
	Method string
	Params string
	IDs    []string
	Labels []int // parallel to IDs; NoiseLabel for unclassified records

	byID map[string]int
}

// NewClusterAssignment builds an assignment from parallel id/label slices.
func NewClusterAssignment(method, params string, ids []string, labels []int) (*ClusterAssignment, error) {
	if len(ids) != len(labels) {
		return nil, fmt.Errorf("cluster assignment %s: %d ids but %d labels", method, len(ids), len(labels))
	}
	byID := make(map[string]int, len(ids))
	for i, id := range ids {
		byID[id] = labels[i]
	}
	return &ClusterAssignment{
		Method: method,
		Params: params,
		IDs:    ids,
		Labels: labels,
		byID:   byID,
	}, nil
}

// Name returns a human-readable identifier for the run, e.g. "kmeans (k=4)".
func (a *ClusterAssignment) Name() string {
	if a.Params == "" {
		return a.Method
	}
	return fmt.Sprintf("%s (%s)", a.Method, a.Params)
}

// Label returns the cluster label for an identifier.
func (a *ClusterAssignment) Label(id string) (int, bool) {
	l, ok := a.byID[id]
	return l, ok
}

// NumClusters returns the number of distinct proper clusters, excluding noise.
func (a *ClusterAssignment) NumClusters() int {
	seen := make(map[int]struct{})
	for _, l := range a.Labels {
		if l != NoiseLabel {
			seen[l] = struct{}{}
		}
	}
	return len(seen)
}

// NoiseCount returns how many records carry the noise label.
func (a *ClusterAssignment) NoiseCount() int {
	n := 0
	for _, l := range a.Labels {
		if l == NoiseLabel {
			n++
		}
	}
	return n
}
