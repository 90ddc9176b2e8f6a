// Package model defines the core domain models used throughout the application.
package model

import "sort"

// Record is one labeled critique.
type Record struct {
	Label string
	Text  string
}

// LabelCount is the number of records carrying a label.
type LabelCount struct {
	Label string
	Count int
}

// Dataset is an ordered sequence of records loaded from one source file.
type Dataset struct {
	Source  string
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Labels returns the distinct labels in lexical order.
func (d *Dataset) Labels() []string {
	return labelsOf(d.Records)
}

// LabelCounts returns the label distribution sorted by label.
func (d *Dataset) LabelCounts() []LabelCount {
	return countLabels(d.Records)
}

// Split is a disjoint partition of a dataset. Both subsets keep input order.
type Split struct {
	Train []Record
	Test  []Record
}

// Len returns the combined size of both subsets.
func (s *Split) Len() int {
	return len(s.Train) + len(s.Test)
}

// MissingTrainLabels returns labels present in the test subset but absent from training.
func (s *Split) MissingTrainLabels() []string {
	seen := make(map[string]bool, len(s.Train))
	for _, r := range s.Train {
		seen[r.Label] = true
	}

	var missing []string
	for _, label := range labelsOf(s.Test) {
		if !seen[label] {
			missing = append(missing, label)
		}
	}
	return missing
}

func labelsOf(records []Record) []string {
	counts := countLabels(records)
	labels := make([]string, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
	}
	return labels
}

func countLabels(records []Record) []LabelCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Label]++
	}

	result := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		result = append(result, LabelCount{Label: label, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Label < result[j].Label
	})
	return result
}
