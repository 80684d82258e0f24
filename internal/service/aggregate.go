package service

import (
	"fmt"
	"sort"
)

// rate returns num/den as a percentage, or 0 when den is 0.
func rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

// formatRate renders a percentage with exactly two decimal places.
func formatRate(num, den int) string {
	return formatFixed(rate(num, den))
}

// formatFixed renders a numeric metric with exactly two decimal places.
func formatFixed(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// amountAccumulator folds amounts for one grouping key.
type amountAccumulator struct {
	Total float64
	Count int
	Max   float64
}

func (a *amountAccumulator) add(amount float64) {
	a.Total += amount
	a.Count++
	if amount > a.Max {
		a.Max = amount
	}
}

// scoreAccumulator folds percentage scores for one grouping key.
type scoreAccumulator struct {
	Sum     float64
	Count   int
	Highest float64
	Lowest  float64
}

func (a *scoreAccumulator) add(score float64) {
	if a.Count == 0 {
		a.Highest = score
		a.Lowest = score
	} else {
		if score > a.Highest {
			a.Highest = score
		}
		if score < a.Lowest {
			a.Lowest = score
		}
	}
	a.Sum += score
	a.Count++
}

func (a scoreAccumulator) average() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// rankedEntry pairs a grouping key with its metric for top-N and
// below-threshold selections. Order is the insertion order of the key and
// serves as the deterministic tie-break.
type rankedEntry struct {
	Key    string
	Metric float64
	Order  int
}

// topEntries returns up to limit entries sorted by metric descending.
// Equal metrics keep insertion order. The input slice is not modified.
func topEntries(entries []rankedEntry, limit int) []rankedEntry {
	if limit <= 0 {
		limit = 10
	}
	ranked := make([]rankedEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metric > ranked[j].Metric
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// bottomEntries returns up to limit entries whose metric is strictly below
// threshold, sorted ascending. Equal metrics keep insertion order. The input
// slice is not modified.
func bottomEntries(entries []rankedEntry, threshold float64, limit int) []rankedEntry {
	var ranked []rankedEntry
	for _, entry := range entries {
		if entry.Metric < threshold {
			ranked = append(ranked, entry)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metric < ranked[j].Metric
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
