package insights

import (
	"math/rand"
	"testing"

	"github.com/seradyn/batchdash/pkg/analyzer/externalrft"
	"github.com/seradyn/batchdash/pkg/analyzer/overview"
	"github.com/seradyn/batchdash/pkg/analyzer/process"
	"github.com/seradyn/batchdash/pkg/metrics"
)

func TestRecommend(t *testing.T) {
	if got := Recommend("Documentation"); got == genericRecommendation {
		t.Error("known key fell through to generic recommendation")
	}
	if got := Recommend("Some Never Seen Category"); got != genericRecommendation {
		t.Errorf("unknown key returned %q, want generic fallback", got)
	}
}

func TestAnalyzeNilInputs(t *testing.T) {
	analysis, err := New().Analyze(Inputs{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.RootCauses == nil || analysis.Projection == nil {
		t.Error("nil inputs produced nil series; contract requires empty slices")
	}
	if len(analysis.RootCauses) != 0 {
		t.Errorf("RootCauses = %v, want none from empty sections", analysis.RootCauses)
	}
}

func TestAnalyzeRootCauses(t *testing.T) {
	in := Inputs{
		Overview: &overview.Analysis{
			TopErrorTypes: []metrics.ErrorTypeCount{
				{Type: "Documentation", Count: 6, Percentage: 60},
			},
		},
		External: &externalrft.Analysis{
			Sentiment: externalrft.SentimentBreakdown{
				Negative:         3,
				TopNegativeIssue: "Damaged",
			},
		},
		Process: &process.Analysis{SlowestStage: "NN Review"},
	}

	analysis, err := New().Analyze(in)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(analysis.RootCauses) != 3 {
		t.Fatalf("got %d root causes, want 3", len(analysis.RootCauses))
	}

	wantCategories := []string{"error-type", "customer-sentiment", "bottleneck"}
	for i, cat := range wantCategories {
		if analysis.RootCauses[i].Category != cat {
			t.Errorf("root cause[%d] category = %q, want %q", i, analysis.RootCauses[i].Category, cat)
		}
		if analysis.RootCauses[i].Recommendation == "" {
			t.Errorf("root cause[%d] missing recommendation", i)
		}
	}

	// Mapped keys get their specific recommendation text.
	if analysis.RootCauses[2].Recommendation == genericRecommendation {
		t.Error("NN Review bottleneck fell through to generic recommendation")
	}
}

func trendMonths(rates ...float64) []overview.MonthMetric {
	trend := make([]overview.MonthMetric, len(rates))
	for i, rate := range rates {
		trend[i] = overview.MonthMetric{
			Month:   "2025-0" + string(rune('1'+i)),
			RFTRate: rate,
		}
	}
	return trend
}

func TestProjectionDeterministic(t *testing.T) {
	in := Inputs{
		Overview: &overview.Analysis{MonthlyTrend: trendMonths(90, 92, 94)},
	}

	first, err := New().Analyze(in)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	second, _ := New().Analyze(in)

	if len(first.Projection) != DefaultProjectionMonths {
		t.Fatalf("projection has %d months, want %d", len(first.Projection), DefaultProjectionMonths)
	}

	// Trailing delta is +2 per month; projection clamps at 100.
	want := []ProjectedMonth{
		{Month: "2025-04", RFTRate: 96},
		{Month: "2025-05", RFTRate: 98},
		{Month: "2025-06", RFTRate: 100},
	}
	for i, w := range want {
		if first.Projection[i] != w {
			t.Errorf("projection[%d] = %+v, want %+v", i, first.Projection[i], w)
		}
		if first.Projection[i] != second.Projection[i] {
			t.Errorf("projection[%d] differs between identical runs", i)
		}
	}
}

func TestProjectionClamped(t *testing.T) {
	in := Inputs{
		Overview: &overview.Analysis{MonthlyTrend: trendMonths(20, 10, 0)},
	}

	analysis, err := New().Analyze(in)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for i, p := range analysis.Projection {
		if p.RFTRate < 0 || p.RFTRate > 100 {
			t.Errorf("projection[%d] = %v, outside [0, 100]", i, p.RFTRate)
		}
	}
}

func TestProjectionNeedsTwoPoints(t *testing.T) {
	in := Inputs{
		Overview: &overview.Analysis{MonthlyTrend: trendMonths(90)},
	}

	analysis, err := New().Analyze(in)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(analysis.Projection) != 0 {
		t.Errorf("projection = %v, want empty with a single trend point", analysis.Projection)
	}
}

func TestProjectionJitterBounded(t *testing.T) {
	in := Inputs{
		Overview: &overview.Analysis{MonthlyTrend: trendMonths(50, 50, 50)},
	}

	analysis, err := New(WithJitter(rand.New(rand.NewSource(42)))).Analyze(in)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	// Flat trend plus jitter stays within the bound of the previous point
	// (allowing for the one-decimal rounding of stored values).
	const slack = 0.11
	prev := 50.0
	for i, p := range analysis.Projection {
		if diff := p.RFTRate - prev; diff > jitterBound+slack || diff < -(jitterBound+slack) {
			t.Errorf("projection[%d] moved %.2f from previous, beyond ±%.1f", i, diff, jitterBound)
		}
		prev = p.RFTRate
	}
}
