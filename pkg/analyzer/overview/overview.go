// Package overview builds the dashboard's top-level summary section: overall
// RFT rate, cycle-time aggregate, monthly trend, and top error types.
package overview

import (
	"context"
	"time"

	"github.com/seradyn/batchdash/pkg/metrics"
	"github.com/seradyn/batchdash/pkg/records"
	"github.com/seradyn/batchdash/pkg/stats"
)

// DefaultTrendMonths is the length of the monthly trend series.
const DefaultTrendMonths = 12

// Analyzer computes the overview section.
type Analyzer struct {
	trendMonths int
	topErrors   int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithTrendMonths sets how many trailing months the trend series keeps.
func WithTrendMonths(months int) Option {
	return func(a *Analyzer) {
		if months > 0 {
			a.trendMonths = months
		}
	}
}

// WithTopErrorTypes sets the error-type ranking truncation.
func WithTopErrorTypes(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.topErrors = n
		}
	}
}

// New creates a new overview analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		trendMonths: DefaultTrendMonths,
		topErrors:   metrics.DefaultTopErrorTypes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the overview section from the shared record array.
// Records missing the primary date stay in the aggregate figures but are
// excluded from the monthly trend.
func (a *Analyzer) Analyze(ctx context.Context, recs []records.Record) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis := Empty()
	analysis.TotalRecords = len(recs)
	analysis.OverallRFTRate = stats.Round1(metrics.RFTRate(recs))
	analysis.AvgCycleTimeDays = stats.Round1(metrics.AvgCycleTime(recs))
	if ranked := metrics.RankErrorTypes(recs, a.topErrors); ranked != nil {
		analysis.TopErrorTypes = ranked
	}

	keys, buckets := stats.MonthBuckets(recs, recordDate, a.trendMonths)
	for _, key := range keys {
		group := buckets[key]
		analysis.MonthlyTrend = append(analysis.MonthlyTrend, MonthMetric{
			Month:        key,
			RecordCount:  len(group),
			RFTRate:      stats.Round1(metrics.RFTRate(group)),
			AvgCycleTime: stats.Round1(metrics.AvgCycleTime(group)),
		})
	}

	// The improvement comparison needs a full year of history: six recent
	// months against the six before them.
	if len(analysis.MonthlyTrend) >= 12 {
		analysis.Improvement = compareHalves(analysis.MonthlyTrend)
	}

	return analysis, nil
}

func recordDate(r records.Record) (time.Time, bool) {
	return r.Date, r.HasDate()
}

func compareHalves(trend []MonthMetric) *Improvement {
	recent := trend[len(trend)-6:]
	previous := trend[len(trend)-12 : len(trend)-6]

	recentRFT := meanRate(recent)
	previousRFT := meanRate(previous)

	return &Improvement{
		RecentRFTRate:   stats.Round1(recentRFT),
		PreviousRFTRate: stats.Round1(previousRFT),
		ChangePercent:   stats.Round1(stats.PercentageChange(recentRFT, previousRFT)),
	}
}

func meanRate(trend []MonthMetric) float64 {
	values := make([]float64, len(trend))
	for i, m := range trend {
		values[i] = m.RFTRate
	}
	return stats.Describe(values).Mean
}
