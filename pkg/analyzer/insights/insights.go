// Package insights builds the cross-section heuristic layer: root-cause
// ranking, templated recommendations, and the next-quarter RFT projection.
// It composes the outputs of the other sections rather than re-scanning
// records.
package insights

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/seradyn/batchdash/pkg/analyzer/externalrft"
	"github.com/seradyn/batchdash/pkg/analyzer/overview"
	"github.com/seradyn/batchdash/pkg/analyzer/process"
	"github.com/seradyn/batchdash/pkg/stats"
)

// DefaultProjectionMonths is how far the RFT projection extends.
const DefaultProjectionMonths = 3

// jitterBound caps the optional projection noise at ±1.5 percentage points.
const jitterBound = 1.5

// recommendations maps root-cause keys to recommendation text. Unknown keys
// fall back to genericRecommendation; this lookup-with-default is the
// documented extensibility point and must keep its shape.
var recommendations = map[string]string{
	"Documentation":  "Review batch record templates and reinforce good documentation practice training.",
	"Label":          "Audit label stock handling and add a second label verification step at packaging.",
	"Assembly":       "Rebalance assembly line staffing and review changeover procedures.",
	"Packaging":      "Inspect packaging equipment calibration and review material staging.",
	"PCI Review":     "Add reviewer capacity or pre-screening to reduce the PCI review queue.",
	"NN Review":      "Parallelize NN review preparation with the preceding review stage.",
	"Release":        "Streamline release checklist sign-off to cut idle time before shipment.",
	"Damaged":        "Review protective packaging and carrier handling requirements.",
	"Delay":          "Re-examine promised lead times against observed cycle times.",
	"Missing":        "Tighten component kitting checks before assembly start.",
}

const genericRecommendation = "Investigate the top contributing lots and agree corrective actions with the responsible team."

// Recommend returns the recommendation text for a root-cause key, falling
// back to the generic text for unrecognized keys.
func Recommend(key string) string {
	if text, ok := recommendations[key]; ok {
		return text
	}
	return genericRecommendation
}

// Inputs carries the section outputs the insight generator composes. Any nil
// section is treated as its empty default; the generator must degrade
// gracefully rather than abort the pipeline.
type Inputs struct {
	Overview *overview.Analysis
	External *externalrft.Analysis
	Process  *process.Analysis
}

// Analyzer composes section outputs into the insights section.
type Analyzer struct {
	projectionMonths int
	jitter           *rand.Rand
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithProjectionMonths sets how many months the RFT projection extends.
func WithProjectionMonths(months int) Option {
	return func(a *Analyzer) {
		if months > 0 {
			a.projectionMonths = months
		}
	}
}

// WithJitter enables bounded random noise on the projection. The projection
// is deterministic by default; jitter is opt-in so tests and repeated runs
// produce stable documents.
func WithJitter(rng *rand.Rand) Option {
	return func(a *Analyzer) {
		a.jitter = rng
	}
}

// New creates a new insights analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{projectionMonths: DefaultProjectionMonths}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds the insights section from the other sections' outputs.
func (a *Analyzer) Analyze(in Inputs) (*Analysis, error) {
	if in.Overview == nil {
		in.Overview = overview.Empty()
	}
	if in.External == nil {
		in.External = externalrft.Empty()
	}
	if in.Process == nil {
		in.Process = process.Empty()
	}

	analysis := Empty()

	if len(in.Overview.TopErrorTypes) > 0 {
		top := in.Overview.TopErrorTypes[0]
		analysis.RootCauses = append(analysis.RootCauses, RootCause{
			Category:       "error-type",
			Key:            top.Type,
			Detail:         fmt.Sprintf("%q is the most frequent error type (%d occurrences, %.1f%% of all errors)", top.Type, top.Count, top.Percentage),
			Recommendation: Recommend(top.Type),
		})
	}

	if issue := in.External.Sentiment.TopNegativeIssue; issue != "" {
		analysis.RootCauses = append(analysis.RootCauses, RootCause{
			Category:       "customer-sentiment",
			Key:            issue,
			Detail:         fmt.Sprintf("%q dominates negative customer feedback (%d negative responses)", issue, in.External.Sentiment.Negative),
			Recommendation: Recommend(issue),
		})
	}

	if stage := in.Process.SlowestStage; stage != "" {
		analysis.RootCauses = append(analysis.RootCauses, RootCause{
			Category:       "bottleneck",
			Key:            stage,
			Detail:         fmt.Sprintf("%s is the slowest process stage", stage),
			Recommendation: Recommend(stage),
		})
	}

	analysis.Projection = a.project(in.Overview.MonthlyTrend)

	return analysis, nil
}

// project extrapolates the trailing 3-month RFT delta linearly. With fewer
// than two trend points there is no delta to extrapolate and the projection
// stays empty. Projected rates are clamped to [0, 100].
func (a *Analyzer) project(trend []overview.MonthMetric) []ProjectedMonth {
	out := []ProjectedMonth{}
	if len(trend) < 2 {
		return out
	}

	window := trend
	if len(window) > 3 {
		window = window[len(window)-3:]
	}
	delta := (window[len(window)-1].RFTRate - window[0].RFTRate) / float64(len(window)-1)

	last := trend[len(trend)-1]
	base, err := time.Parse("2006-01", last.Month)
	if err != nil {
		return out
	}

	rate := last.RFTRate
	for i := 1; i <= a.projectionMonths; i++ {
		rate += delta
		if a.jitter != nil {
			rate += (a.jitter.Float64()*2 - 1) * jitterBound
		}
		rate = clamp(rate, 0, 100)
		out = append(out, ProjectedMonth{
			Month:   stats.MonthKey(base.AddDate(0, i, 0)),
			RFTRate: stats.Round1(rate),
		})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
