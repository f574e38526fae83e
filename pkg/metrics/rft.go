// Package metrics implements the domain metric calculators shared by all
// dashboard sections: right-first-time rates, error-type ranking, sentiment
// classification, lag correlation, and outlier detection.
package metrics

import (
	"sort"

	"github.com/seradyn/batchdash/pkg/records"
	"github.com/seradyn/batchdash/pkg/stats"
)

// RFTRate returns the percentage of records completed without any recorded
// error. Empty input returns 0, never NaN; callers must not special-case it.
func RFTRate(recs []records.Record) float64 {
	if len(recs) == 0 {
		return 0
	}
	passing := 0
	for _, r := range recs {
		if r.Passing() {
			passing++
		}
	}
	return float64(passing) / float64(len(recs)) * 100
}

// AvgCycleTime returns the mean of the usable cycle times across records.
// Records without a usable cycle time are skipped, not coerced to zero.
func AvgCycleTime(recs []records.Record) float64 {
	var values []float64
	for _, r := range recs {
		if r.HasCycleTime() {
			values = append(values, r.CycleTime)
		}
	}
	return stats.Describe(values).Mean
}

// ErrorTypeCount is one error category with its occurrence share.
type ErrorTypeCount struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DefaultTopErrorTypes is the default truncation for error-type rankings.
const DefaultTopErrorTypes = 3

// RankErrorTypes flattens all records' canonical error-type collections,
// counts occurrences, and returns the top-N categories sorted descending by
// count with their percentage of total occurrences. topN <= 0 applies the
// default.
func RankErrorTypes(recs []records.Record, topN int) []ErrorTypeCount {
	if topN <= 0 {
		topN = DefaultTopErrorTypes
	}

	counts := make(map[string]int)
	total := 0
	for _, r := range recs {
		for _, et := range r.ErrorTypes {
			counts[et]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	ranked := make([]ErrorTypeCount, 0, len(counts))
	for et, count := range counts {
		ranked = append(ranked, ErrorTypeCount{
			Type:       et,
			Count:      count,
			Percentage: stats.Round1(float64(count) / float64(total) * 100),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Type < ranked[j].Type
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
