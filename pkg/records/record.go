// Package records defines the canonical lot/batch record model and the
// normalizer that coerces raw tabular rows into it.
package records

import (
	"math"
	"time"
)

// Source identifies which quality stream a record belongs to.
type Source string

const (
	SourceInternal Source = "Internal"
	SourceProcess  Source = "Process"
	SourceExternal Source = "External"
	// SourceUnknown marks records with no recognizable source tag. They are
	// excluded from both internal and external aggregations but still count
	// toward overall totals.
	SourceUnknown Source = ""
)

// Canonical lifecycle date names. Raw rows may carry these under several
// different keys; the normalizer resolves aliases once so analyzers never
// re-parse field names.
const (
	DateAssemblyStart   = "assembly_start"
	DateAssemblyFinish  = "assembly_finish"
	DatePackagingStart  = "packaging_start"
	DatePackagingFinish = "packaging_finish"
	DatePCIReview       = "pci_review_date"
	DateNNReview        = "nn_review_date"
	DateRelease         = "release_date"
	DateShipment        = "shipment_date"
)

// Record is one manufacturing batch/lot event in canonical shape.
type Record struct {
	ID         string               `json:"id"`
	Source     Source               `json:"source"`
	Date       time.Time            `json:"date"`
	HasErrors  bool                 `json:"hasErrors"`
	ErrorCount int                  `json:"errorCount"`
	ErrorTypes []string             `json:"errorTypes,omitempty"`
	Status     string               `json:"status,omitempty"`
	Dates      map[string]time.Time `json:"-"`
	CycleTime  float64              `json:"cycleTime"`
	Feedback   string               `json:"feedback,omitempty"`
	Warnings   []string             `json:"warnings,omitempty"`
}

// HasDate reports whether the primary date field was populated and valid.
func (r *Record) HasDate() bool {
	return !r.Date.IsZero()
}

// HasCycleTime reports whether the record carries a usable cycle time.
// Negative and NaN values are discarded from statistics, never coerced to zero.
func (r *Record) HasCycleTime() bool {
	return !math.IsNaN(r.CycleTime) && r.CycleTime >= 0
}

// Passing reports whether the lot completed right-first-time.
func (r *Record) Passing() bool {
	return !r.HasErrors
}

// StageDuration returns the duration in days between two named lifecycle
// dates. The second return value is false when either date is missing or the
// difference is negative (inconsistent source data).
func (r *Record) StageDuration(from, to string) (float64, bool) {
	start, ok := r.Dates[from]
	if !ok {
		return 0, false
	}
	end, ok := r.Dates[to]
	if !ok {
		return 0, false
	}
	days := end.Sub(start).Hours() / 24
	if days < 0 || math.IsNaN(days) {
		return 0, false
	}
	return days, true
}

// IsOpen reports whether an external record is still unresolved.
func (r *Record) IsOpen() bool {
	return r.Status == "Open"
}

// FilterSource returns the subset of records matching any of the given
// source tags, preserving input order.
func FilterSource(recs []Record, sources ...Source) []Record {
	want := make(map[Source]bool, len(sources))
	for _, s := range sources {
		want[s] = true
	}
	var out []Record
	for _, r := range recs {
		if want[r.Source] {
			out = append(out, r)
		}
	}
	return out
}
