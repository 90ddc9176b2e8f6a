package model

import (
	"fmt"
	"sort"
)

// Neighbor is a vocabulary token close to a query in embedding space.
type Neighbor struct {
	Token string
	Score float64
}

// Neighbors is a ranked list of neighbours.
type Neighbors []Neighbor

// Len implements sort.Interface.
func (n Neighbors) Len() int {
	return len(n)
}

// Less implements sort.Interface - higher scores come first.
func (n Neighbors) Less(i, j int) bool {
	return n[i].Score > n[j].Score
}

// Swap implements sort.Interface.
func (n Neighbors) Swap(i, j int) {
	n[i], n[j] = n[j], n[i]
}

// Sort orders neighbours by descending score, keeping the incoming order for ties.
func (n Neighbors) Sort() {
	sort.Stable(n)
}

// IsRanked reports whether scores are non-increasing.
func (n Neighbors) IsRanked() bool {
	return sort.IsSorted(n)
}

// TopN returns the N highest-scoring neighbours.
func (n Neighbors) TopN(k int) Neighbors {
	if k <= 0 {
		return Neighbors{}
	}

	n.Sort()

	if k > len(n) {
		k = len(n)
	}

	result := make(Neighbors, k)
	copy(result, n[:k])
	return result
}

// Validate ensures every neighbour has a token and no token repeats.
func (n Neighbors) Validate() error {
	seen := make(map[string]bool)

	for i, nb := range n {
		if nb.Token == "" {
			return fmt.Errorf("neighbor at index %d has no token", i)
		}
		if seen[nb.Token] {
			return fmt.Errorf("duplicate token %q in neighbors", nb.Token)
		}
		seen[nb.Token] = true
	}

	return nil
}
