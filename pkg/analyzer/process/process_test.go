package process

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/seradyn/batchdash/pkg/records"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func lot(id string, assemblyDays int, released bool) records.Record {
	r := records.Record{
		ID:        id,
		Source:    records.SourceProcess,
		Date:      day(1),
		CycleTime: math.NaN(),
		Dates: map[string]time.Time{
			records.DateAssemblyStart:  day(1),
			records.DateAssemblyFinish: day(1 + assemblyDays),
		},
	}
	if released {
		r.Dates[records.DateRelease] = day(20)
	}
	return r
}

func TestAnalyzeStages(t *testing.T) {
	recs := []records.Record{
		lot("L1", 2, true),
		lot("L2", 2, true),
		lot("L3", 2, true),
		lot("L4", 2, false),
		lot("L5", 14, false), // slow lot
	}

	analysis, err := New().Analyze(context.Background(), recs)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.RecordCount != 5 {
		t.Errorf("RecordCount = %d, want 5", analysis.RecordCount)
	}
	if analysis.CompletionRate != 60.0 {
		t.Errorf("CompletionRate = %v, want 60.0 (3 of 5 released)", analysis.CompletionRate)
	}

	// All five configured stages appear, in fixed order, even when empty.
	if len(analysis.Stages) != 5 {
		t.Fatalf("got %d stages, want 5", len(analysis.Stages))
	}
	wantOrder := []string{"Assembly", "Packaging", "PCI Review", "NN Review", "Release"}
	for i, name := range wantOrder {
		if analysis.Stages[i].Name != name {
			t.Errorf("stage[%d] = %q, want %q", i, analysis.Stages[i].Name, name)
		}
	}

	assembly := analysis.Stages[0]
	if assembly.Count != 5 {
		t.Errorf("assembly count = %d, want 5", assembly.Count)
	}
	// Durations {2,2,2,2,14}: mean 4.4, stddev 4.8, threshold 14 inclusive.
	if len(assembly.Outliers) != 1 || assembly.Outliers[0].LotID != "L5" {
		t.Fatalf("assembly outliers = %v, want exactly L5", assembly.Outliers)
	}
	if assembly.Outliers[0].Days != 14.0 {
		t.Errorf("outlier days = %v, want 14.0", assembly.Outliers[0].Days)
	}

	if analysis.SlowestStage != "Assembly" {
		t.Errorf("SlowestStage = %q, want Assembly (only populated stage)", analysis.SlowestStage)
	}

	// Stages without data stay well-shaped.
	packaging := analysis.Stages[1]
	if packaging.Count != 0 || packaging.Outliers == nil {
		t.Errorf("empty stage = %+v, want zero count with empty outliers", packaging)
	}
}

func TestAnalyzeExcludesExternal(t *testing.T) {
	recs := []records.Record{
		{ID: "E", Source: records.SourceExternal, Date: day(1), CycleTime: math.NaN()},
	}

	analysis, err := New().Analyze(context.Background(), recs)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.RecordCount != 0 {
		t.Errorf("RecordCount = %d, want 0 (external records have no lifecycle)", analysis.RecordCount)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	analysis, err := New().Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.CompletionRate != 0 {
		t.Errorf("CompletionRate = %v, want 0", analysis.CompletionRate)
	}
	if analysis.Stages == nil || analysis.MonthlyDurations == nil {
		t.Error("empty analysis has nil series; contract requires empty slices")
	}
	if analysis.SlowestStage != "" {
		t.Errorf("SlowestStage = %q, want empty", analysis.SlowestStage)
	}
}
