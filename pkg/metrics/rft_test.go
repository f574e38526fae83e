package metrics

import (
	"math"
	"testing"

	"github.com/seradyn/batchdash/pkg/records"
)

func rec(hasErrors bool, errorTypes ...string) records.Record {
	return records.Record{
		HasErrors:  hasErrors,
		ErrorTypes: errorTypes,
		CycleTime:  math.NaN(),
	}
}

func TestRFTRate(t *testing.T) {
	tests := []struct {
		name string
		recs []records.Record
		want float64
	}{
		{"empty returns zero not NaN", nil, 0},
		{"all passing", []records.Record{rec(false), rec(false)}, 100},
		{"all failing", []records.Record{rec(true), rec(true)}, 0},
		{"two of three passing", []records.Record{rec(false), rec(false), rec(true)}, 200.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RFTRate(tt.recs)
			if math.IsNaN(got) {
				t.Fatal("RFTRate() returned NaN")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RFTRate() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("RFTRate() = %v, outside [0, 100]", got)
			}
		})
	}
}

func TestAvgCycleTime(t *testing.T) {
	recs := []records.Record{
		{CycleTime: 10},
		{CycleTime: 20},
		{CycleTime: math.NaN()}, // unusable, skipped not zeroed
		{CycleTime: -5},         // negative, skipped
	}

	if got := AvgCycleTime(recs); got != 15 {
		t.Errorf("AvgCycleTime() = %v, want 15", got)
	}
	if got := AvgCycleTime(nil); got != 0 {
		t.Errorf("AvgCycleTime(nil) = %v, want 0", got)
	}
}

func TestRankErrorTypes(t *testing.T) {
	recs := []records.Record{
		rec(true, "Documentation", "Label"),
		rec(true, "Documentation"),
		rec(true, "Documentation"),
		rec(true, "Label"),
		rec(true, "Damaged"),
	}

	got := RankErrorTypes(recs, 2)
	if len(got) != 2 {
		t.Fatalf("RankErrorTypes() returned %d types, want 2", len(got))
	}
	if got[0].Type != "Documentation" || got[0].Count != 3 {
		t.Errorf("top type = %+v, want Documentation x3", got[0])
	}
	if got[0].Percentage != 50.0 {
		t.Errorf("top percentage = %v, want 50.0", got[0].Percentage)
	}
	if got[1].Type != "Label" || got[1].Count != 2 {
		t.Errorf("second type = %+v, want Label x2", got[1])
	}
}

func TestRankErrorTypesDefaults(t *testing.T) {
	recs := []records.Record{
		rec(true, "A"), rec(true, "B"), rec(true, "C"), rec(true, "D"),
	}

	// topN <= 0 applies the default truncation.
	got := RankErrorTypes(recs, 0)
	if len(got) != DefaultTopErrorTypes {
		t.Errorf("RankErrorTypes(recs, 0) returned %d types, want %d", len(got), DefaultTopErrorTypes)
	}

	if got := RankErrorTypes(nil, 3); got != nil {
		t.Errorf("RankErrorTypes(nil) = %v, want nil", got)
	}
}

func TestRankErrorTypesTieBreaksByName(t *testing.T) {
	recs := []records.Record{rec(true, "Zeta"), rec(true, "Alpha")}

	got := RankErrorTypes(recs, 3)
	if got[0].Type != "Alpha" || got[1].Type != "Zeta" {
		t.Errorf("tie order = [%s %s], want [Alpha Zeta]", got[0].Type, got[1].Type)
	}
}
