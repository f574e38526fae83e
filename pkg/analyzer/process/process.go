// Package process builds the commercial process metrics section: named
// inter-step durations derived from lifecycle timestamp pairs, per-stage and
// per-month aggregation, and bottleneck detection.
package process

import (
	"context"
	"time"

	"github.com/seradyn/batchdash/pkg/metrics"
	"github.com/seradyn/batchdash/pkg/records"
	"github.com/seradyn/batchdash/pkg/stats"
)

// DefaultTrendMonths is the length of the monthly duration series.
const DefaultTrendMonths = 12

// stagePair names an inter-step duration and the timestamp pair it is
// derived from. Negative differences are inconsistent source data and are
// discarded from statistics.
type stagePair struct {
	name string
	from string
	to   string
}

// stagePairs is ordered: output stages keep this order regardless of which
// stage dominates.
var stagePairs = []stagePair{
	{"Assembly", records.DateAssemblyStart, records.DateAssemblyFinish},
	{"Packaging", records.DatePackagingStart, records.DatePackagingFinish},
	{"PCI Review", records.DateAssemblyFinish, records.DatePCIReview},
	{"NN Review", records.DatePCIReview, records.DateNNReview},
	{"Release", records.DateNNReview, records.DateRelease},
}

// Analyzer computes the process metrics section.
type Analyzer struct {
	trendMonths int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithTrendMonths sets how many trailing months the duration series keeps.
func WithTrendMonths(months int) Option {
	return func(a *Analyzer) {
		if months > 0 {
			a.trendMonths = months
		}
	}
}

// New creates a new process analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{trendMonths: DefaultTrendMonths}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the process metrics section from the shared record array.
// Only Process and Internal stream records carry lifecycle timestamps.
func (a *Analyzer) Analyze(ctx context.Context, recs []records.Record) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subset := records.FilterSource(recs, records.SourceProcess, records.SourceInternal)

	analysis := Empty()
	analysis.RecordCount = len(subset)
	analysis.CompletionRate = stats.Round1(completionRate(subset))

	var slowest string
	var slowestAvg float64
	for _, sp := range stagePairs {
		var durations []float64
		var lots []string
		for _, r := range subset {
			if days, ok := r.StageDuration(sp.from, sp.to); ok {
				durations = append(durations, days)
				lots = append(lots, r.ID)
			}
		}

		summary := stats.Describe(durations)
		threshold, rawOutliers := metrics.DetectOutliers(durations)

		stage := StageMetrics{
			Name:             sp.name,
			Count:            len(durations),
			Stats:            summary,
			OutlierThreshold: stats.Round1(threshold),
			Outliers:         []StageOutlier{},
		}
		for _, o := range rawOutliers {
			stage.Outliers = append(stage.Outliers, StageOutlier{
				LotID:      lots[o.Index],
				Days:       stats.Round1(o.Value),
				Threshold:  stats.Round1(o.Threshold),
				ExcessDays: stats.Round1(o.Excess),
			})
		}
		analysis.Stages = append(analysis.Stages, stage)

		if len(durations) > 0 && summary.Mean > slowestAvg {
			slowestAvg = summary.Mean
			slowest = sp.name
		}
	}
	analysis.SlowestStage = slowest

	keys, buckets := stats.MonthBuckets(subset, recordDate, a.trendMonths)
	for _, key := range keys {
		group := buckets[key]
		analysis.MonthlyDurations = append(analysis.MonthlyDurations, MonthDuration{
			Month:        key,
			RecordCount:  len(group),
			AvgCycleTime: stats.Round1(metrics.AvgCycleTime(group)),
		})
	}

	return analysis, nil
}

// completionRate is the share of lots that reached release.
func completionRate(recs []records.Record) float64 {
	if len(recs) == 0 {
		return 0
	}
	released := 0
	for _, r := range recs {
		if _, ok := r.Dates[records.DateRelease]; ok {
			released++
		}
	}
	return float64(released) / float64(len(recs)) * 100
}

func recordDate(r records.Record) (time.Time, bool) {
	return r.Date, r.HasDate()
}
