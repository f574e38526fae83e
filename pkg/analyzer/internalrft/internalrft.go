// Package internalrft builds the internal right-first-time section from the
// Process and Internal quality streams.
package internalrft

import (
	"context"
	"time"

	"github.com/seradyn/batchdash/pkg/metrics"
	"github.com/seradyn/batchdash/pkg/records"
	"github.com/seradyn/batchdash/pkg/stats"
)

// DefaultTrendMonths is the length of the monthly rate series.
const DefaultTrendMonths = 12

// Analyzer computes the internal RFT section.
type Analyzer struct {
	trendMonths int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithTrendMonths sets how many trailing months the rate series keeps.
func WithTrendMonths(months int) Option {
	return func(a *Analyzer) {
		if months > 0 {
			a.trendMonths = months
		}
	}
}

// New creates a new internal RFT analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{trendMonths: DefaultTrendMonths}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the internal RFT section from the shared record array.
// Membership is decided solely by source tag: Process and Internal records
// are in, everything else (including untagged records) is out.
func (a *Analyzer) Analyze(ctx context.Context, recs []records.Record) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subset := records.FilterSource(recs, records.SourceProcess, records.SourceInternal)

	analysis := Empty()
	analysis.RecordCount = len(subset)
	analysis.RFTRate = stats.Round1(metrics.RFTRate(subset))

	keys, buckets := stats.MonthBuckets(subset, recordDate, a.trendMonths)
	for _, key := range keys {
		group := buckets[key]
		analysis.MonthlyRates = append(analysis.MonthlyRates, MonthRate{
			Month:       key,
			RecordCount: len(group),
			RFTRate:     stats.Round1(metrics.RFTRate(group)),
		})
	}

	counts := make(map[string]int)
	for _, r := range subset {
		for _, et := range r.ErrorTypes {
			counts[et]++
		}
	}
	if ranked := stats.ParetoRank(counts); len(ranked) > 0 {
		analysis.ErrorPareto = ranked
	}

	return analysis, nil
}

// MonthlySeries returns the RFT rate series aligned to the analysis months,
// used by the external section's lag correlation.
func (a *Analysis) MonthlySeries() ([]string, []float64) {
	months := make([]string, len(a.MonthlyRates))
	rates := make([]float64, len(a.MonthlyRates))
	for i, m := range a.MonthlyRates {
		months[i] = m.Month
		rates[i] = m.RFTRate
	}
	return months, rates
}

func recordDate(r records.Record) (time.Time, bool) {
	return r.Date, r.HasDate()
}
