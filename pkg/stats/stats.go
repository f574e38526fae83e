// Package stats provides statistical utility functions for section analyzers.
package stats

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics for a numeric series.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"standardDeviation"`
}

// Describe computes descriptive statistics for a numeric sequence. Callers
// pre-filter NaN entries. Empty input returns the all-zero Summary so callers
// never branch on emptiness.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(values, nil),
		Median: median(sorted),
		StdDev: math.Sqrt(stat.PopVariance(values, nil)),
	}
}

// median expects a sorted slice: average of the two middle elements for even
// length, the middle element otherwise.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// PercentageChange returns the relative change from previous to current in
// percent. A zero previous value returns 0 rather than dividing by zero; this
// is a deliberate approximation that downstream trend views rely on.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// ParetoItem is one ranked contributor with its share of the total.
type ParetoItem struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Cumulative float64 `json:"cumulativePercentage"`
}

// ParetoRank sorts contributors descending by count and annotates each with
// its percentage and running cumulative percentage, rounded to one decimal.
// Equal counts are ordered by name so output is deterministic.
func ParetoRank(counts map[string]int) []ParetoItem {
	items := make([]ParetoItem, 0, len(counts))
	total := 0
	for name, count := range counts {
		items = append(items, ParetoItem{Name: name, Count: count})
		total += count
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})

	if total == 0 {
		return items
	}
	running := 0
	for i := range items {
		running += items[i].Count
		items[i].Percentage = Round1(float64(items[i].Count) / float64(total) * 100)
		items[i].Cumulative = Round1(float64(running) / float64(total) * 100)
	}
	return items
}

// MonthKey derives the YYYY-MM bucket key from a date.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthBuckets groups items by the YYYY-MM key of their date and keeps only
// the most recent limit month keys. Lexicographic ordering is safe for
// zero-padded YYYY-MM keys. Items without a date are excluded from the
// buckets but remain in the caller's aggregate statistics. A limit <= 0
// keeps all months. Returned keys are sorted ascending.
func MonthBuckets[T any](items []T, date func(T) (time.Time, bool), limit int) ([]string, map[string][]T) {
	groups := make(map[string][]T)
	for _, item := range items {
		t, ok := date(item)
		if !ok {
			continue
		}
		key := MonthKey(t)
		groups[key] = append(groups[key], item)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if limit > 0 && len(keys) > limit {
		dropped := keys[:len(keys)-limit]
		keys = keys[len(keys)-limit:]
		for _, key := range dropped {
			delete(groups, key)
		}
	}
	return keys, groups
}

// GroupBy groups items by an equality key, preserving insertion order within
// each group.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// MovingAverage computes a trailing moving average over the series. Each
// output point averages up to window preceding values, so the head of the
// series warms up rather than being dropped.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 0 || len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Percentile calculates the p-th percentile of a sorted slice.
// The slice must already be sorted in ascending order.
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
