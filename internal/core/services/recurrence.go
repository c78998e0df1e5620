package services

import (
	"sort"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// labelCounter counts labels and remembers the order each was first seen,
// so rankings can break ties by first appearance.
type labelCounter struct {
	order  []string
	counts map[string]int
}

func newLabelCounter() *labelCounter {
	return &labelCounter{counts: make(map[string]int)}
}

func (c *labelCounter) add(label string) {
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// ranked returns labels by descending count, ties in first-seen order.
func (c *labelCounter) ranked() []domain.LabelCount {
	out := make([]domain.LabelCount, len(c.order))
	for i, label := range c.order {
		out[i] = domain.LabelCount{Label: label, Count: c.counts[label]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// frequency returns a copy of the count table.
func (c *labelCounter) frequency() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// CollectOccurrences flattens one label field of every record into
// (label, filename, date) tuples, in record order.
func CollectOccurrences(records []domain.InsightRecord, field domain.LabelField) []domain.Occurrence {
	var out []domain.Occurrence
	for i := range records {
		for _, label := range field.Labels(&records[i]) {
			out = append(out, domain.Occurrence{
				Label:    label,
				Filename: records[i].Filename,
				Date:     records[i].Date,
			})
		}
	}
	return out
}

// DetectRecurrences returns every label whose occurrence count is at least
// threshold, each with its full occurrence list, sorted by descending count.
// Ties keep first-appearance order. A threshold below 1 is treated as 1.
func DetectRecurrences(occurrences []domain.Occurrence, threshold int) []domain.Recurrence {
	if threshold < 1 {
		threshold = 1
	}

	var order []string
	byLabel := make(map[string][]domain.Occurrence)
	for _, occ := range occurrences {
		if _, seen := byLabel[occ.Label]; !seen {
			order = append(order, occ.Label)
		}
		byLabel[occ.Label] = append(byLabel[occ.Label], occ)
	}

	out := []domain.Recurrence{}
	for _, label := range order {
		occs := byLabel[label]
		if len(occs) < threshold {
			continue
		}
		out = append(out, domain.Recurrence{
			Label:       label,
			Count:       len(occs),
			Occurrences: occs,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// DetectFieldRecurrences applies DetectRecurrences to one label field of the records.
func DetectFieldRecurrences(
	records []domain.InsightRecord, field domain.LabelField, threshold int,
) []domain.Recurrence {
	return DetectRecurrences(CollectOccurrences(records, field), threshold)
}
