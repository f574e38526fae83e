// Package externalrft builds the external right-first-time section: customer
// complaint rates, issue Pareto, sentiment breakdown, and the lag correlation
// against the internal quality series.
package externalrft

import (
	"context"
	"math"
	"time"

	"github.com/seradyn/batchdash/pkg/analyzer/internalrft"
	"github.com/seradyn/batchdash/pkg/metrics"
	"github.com/seradyn/batchdash/pkg/records"
	"github.com/seradyn/batchdash/pkg/stats"
)

// DefaultTrendMonths is the length of the monthly rate series.
const DefaultTrendMonths = 12

// Analyzer computes the external RFT section.
type Analyzer struct {
	trendMonths int
	maxLag      int
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

// WithMaxLag sets the largest month offset tried in the lag correlation.
func WithMaxLag(lag int) Option {
	return func(a *Analyzer) {
		if lag >= 0 {
			a.maxLag = lag
		}
	}
}

// New creates a new external RFT analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		trendMonths: DefaultTrendMonths,
		maxLag:      metrics.DefaultMaxLag,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the external RFT section from the shared record array. The
// internal monthly series used for the lag correlation is recomputed from the
// same records rather than referencing another section's output, keeping
// sections self-contained.
func (a *Analyzer) Analyze(ctx context.Context, recs []records.Record) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subset := records.FilterSource(recs, records.SourceExternal)

	analysis := Empty()
	analysis.RecordCount = len(subset)
	analysis.RFTRate = stats.Round1(metrics.RFTRate(subset))
	analysis.OpenRate = stats.Round1(openRate(subset))

	keys, buckets := stats.MonthBuckets(subset, recordDate, a.trendMonths)
	externalByMonth := make(map[string]float64, len(keys))
	for _, key := range keys {
		group := buckets[key]
		rate := stats.Round1(metrics.RFTRate(group))
		externalByMonth[key] = rate
		analysis.MonthlyRates = append(analysis.MonthlyRates, MonthRate{
			Month:       key,
			RecordCount: len(group),
			RFTRate:     rate,
		})
	}

	counts := make(map[string]int)
	negativeCounts := make(map[string]int)
	for _, r := range subset {
		for _, et := range r.ErrorTypes {
			counts[et]++
		}
		switch metrics.ClassifySentiment(r.Feedback) {
		case metrics.SentimentPositive:
			analysis.Sentiment.Positive++
		case metrics.SentimentNegative:
			analysis.Sentiment.Negative++
			for _, et := range r.ErrorTypes {
				negativeCounts[et]++
			}
		default:
			analysis.Sentiment.Neutral++
		}
	}
	if ranked := stats.ParetoRank(counts); len(ranked) > 0 {
		analysis.IssuePareto = ranked
	}
	if ranked := stats.ParetoRank(negativeCounts); len(ranked) > 0 {
		analysis.Sentiment.TopNegativeIssue = ranked[0].Name
	}

	analysis.InternalCorrelation = a.correlateInternal(ctx, recs, externalByMonth)

	return analysis, nil
}

// correlateInternal lays the internal and external monthly RFT series out on
// a shared contiguous calendar axis and finds the best lag, internal leading.
// Months missing from either series become NaN so an index offset always
// means a calendar month offset, even when a series has gaps.
func (a *Analyzer) correlateInternal(ctx context.Context, recs []records.Record, externalByMonth map[string]float64) metrics.LagCorrelation {
	internal, err := internalrft.New(internalrft.WithTrendMonths(a.trendMonths)).Analyze(ctx, recs)
	if err != nil {
		return metrics.LagCorrelation{}
	}

	months, internalRates := internal.MonthlySeries()
	internalByMonth := make(map[string]float64, len(months))
	for i, month := range months {
		internalByMonth[month] = internalRates[i]
	}

	first, last := "", ""
	for _, m := range [2]map[string]float64{internalByMonth, externalByMonth} {
		for key := range m {
			if first == "" || key < first {
				first = key
			}
			if key > last {
				last = key
			}
		}
	}
	if first == "" {
		return metrics.LagCorrelation{}
	}

	cursor, err := time.Parse("2006-01", first)
	if err != nil {
		return metrics.LagCorrelation{}
	}

	var leading, trailing []float64
	for {
		key := stats.MonthKey(cursor)
		if key > last {
			break
		}
		leading = append(leading, rateOrNaN(internalByMonth, key))
		trailing = append(trailing, rateOrNaN(externalByMonth, key))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return metrics.BestLagCorrelation(leading, trailing, a.maxLag)
}

func rateOrNaN(byMonth map[string]float64, key string) float64 {
	if rate, ok := byMonth[key]; ok {
		return rate
	}
	return math.NaN()
}

func openRate(recs []records.Record) float64 {
	if len(recs) == 0 {
		return 0
	}
	open := 0
	for _, r := range recs {
		if r.IsOpen() {
			open++
		}
	}
	return float64(open) / float64(len(recs)) * 100
}

func recordDate(r records.Record) (time.Time, bool) {
	return r.Date, r.HasDate()
}
