package records

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field aliases map a canonical field to the keys it appears under across
// sources. Internal/process exports use camelCase (`batchId`), the alternate
// ingestion path uses spreadsheet headers (`ID`, `Lot`, `Date`), and some
// legacy exports use snake_case with long prefixes.
var fieldAliases = map[string][]string{
	"id":         {"batchId", "batch_id", "ID", "Lot", "lot", "lot_number", "lotId"},
	"date":       {"date", "Date", "release_date", "releaseDate"},
	"source":     {"source", "Source", "type", "Type"},
	"hasErrors":  {"hasErrors", "has_errors", "errors_on_lot"},
	"errorCount": {"errorCount", "error_count", "errors"},
	"errorTypes": {"errorTypes", "error_types", "error_type", "errorType"},
	"status":     {"status", "Status"},
	"cycleTime":  {"cycleTime", "cycle_time", "total_cycle_time_days", "totalCycleTime"},
	"feedback":   {"feedback", "Feedback", "comment", "comments"},
}

// dateAliases map canonical lifecycle date names to their source keys. Legacy
// exports prefix review dates with `date_pci_` noise that must be accepted.
var dateAliases = map[string][]string{
	DateAssemblyStart:   {"assembly_start", "assemblyStart"},
	DateAssemblyFinish:  {"assembly_finish", "assemblyFinish"},
	DatePackagingStart:  {"packaging_start", "packagingStart"},
	DatePackagingFinish: {"packaging_finish", "packagingFinish"},
	DatePCIReview:       {"pci_review_date", "date_pci_l_a_br_review_date", "pciReviewDate"},
	DateNNReview:        {"nn_review_date", "date_nn_l_a_br_review_date", "nnReviewDate"},
	DateRelease:         {"release_date", "releaseDate"},
	DateShipment:        {"shipment_date", "shipmentDate"},
}

// placeholders are identifier values that count as missing.
var placeholders = map[string]bool{
	"":        true,
	"n/a":     true,
	"na":      true,
	"unknown": true,
}

// isoDatePrefix matches the leading YYYY-MM-DD of an ISO-8601 date string.
var isoDatePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

// Normalize converts a raw row into a canonical Record. Rows are never
// dropped: missing or malformed required fields append human-readable
// warnings instead, and downstream aggregations tolerate partial records.
func Normalize(row map[string]any) Record {
	rec := Record{
		CycleTime: math.NaN(),
		Dates:     make(map[string]time.Time),
	}

	rec.ID = strings.TrimSpace(lookupString(row, "id"))
	if placeholders[strings.ToLower(rec.ID)] {
		rec.Warnings = append(rec.Warnings, "missing or placeholder lot identifier")
	}

	if raw, ok := lookup(row, "date"); ok {
		if t, err := parseDate(raw); err != nil {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("malformed primary date %q", raw))
		} else {
			rec.Date = t
		}
	} else {
		rec.Warnings = append(rec.Warnings, "missing primary date field")
	}

	rec.Source = normalizeSource(lookupString(row, "source"))
	rec.Status = normalizeStatus(lookupString(row, "status"))
	rec.Feedback = strings.TrimSpace(lookupString(row, "feedback"))

	if raw, ok := lookup(row, "errorTypes"); ok {
		rec.ErrorTypes = NormalizeErrorTypes(raw)
	}
	if raw, ok := lookup(row, "errorCount"); ok {
		if n, err := parseInt(raw); err == nil {
			rec.ErrorCount = n
		} else {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("non-numeric error count %q", raw))
		}
	}
	if raw, ok := lookup(row, "hasErrors"); ok {
		rec.HasErrors = parseBool(raw)
	}
	// A record is failing if any error signal is present, whichever field the
	// source populated.
	if rec.ErrorCount > 0 || len(rec.ErrorTypes) > 0 {
		rec.HasErrors = true
	}

	if raw, ok := lookup(row, "cycleTime"); ok {
		if v, err := parseFloat(raw); err == nil && !math.IsNaN(v) && v >= 0 {
			rec.CycleTime = v
		} else {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("unusable cycle time %q", raw))
		}
	}

	for canonical, keys := range dateAliases {
		for _, key := range keys {
			raw, ok := row[key]
			if !ok {
				continue
			}
			t, err := parseDate(raw)
			if err != nil {
				rec.Warnings = append(rec.Warnings, fmt.Sprintf("malformed %s %q", canonical, raw))
				break
			}
			rec.Dates[canonical] = t
			break
		}
	}

	// Derive a cycle time from the assembly-to-release span when the source
	// did not precompute one. Negative spans are inconsistent data and stay
	// discarded.
	if math.IsNaN(rec.CycleTime) {
		if days, ok := rec.StageDuration(DateAssemblyStart, DateRelease); ok {
			rec.CycleTime = days
		}
	}

	return rec
}

// NormalizeAll normalizes a batch of raw rows, preserving input order.
func NormalizeAll(rows []map[string]any) []Record {
	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, Normalize(row))
	}
	return recs
}

// NormalizeErrorTypes accepts either an ordered sequence of strings or a
// single delimiter-joined string, trims whitespace, and drops empty tokens.
// Sources store this field inconsistently; the conversion happens once here
// so metric calculators only ever see a canonical slice.
func NormalizeErrorTypes(raw any) []string {
	var tokens []string
	switch v := raw.(type) {
	case []string:
		tokens = v
	case []any:
		for _, item := range v {
			tokens = append(tokens, fmt.Sprint(item))
		}
	case string:
		tokens = strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';'
		})
	case nil:
		return nil
	default:
		tokens = []string{fmt.Sprint(v)}
	}

	var out []string
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func lookup(row map[string]any, canonical string) (any, bool) {
	for _, key := range fieldAliases[canonical] {
		if v, ok := row[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupString(row map[string]any, canonical string) string {
	v, ok := lookup(row, canonical)
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

func normalizeSource(s string) Source {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "internal":
		return SourceInternal
	case "process":
		return SourceProcess
	case "external":
		return SourceExternal
	default:
		return SourceUnknown
	}
}

func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return "Open"
	case "closed", "complete", "resolved":
		return "Closed"
	case "":
		return ""
	default:
		return strings.TrimSpace(s)
	}
}

// parseDate validates against an ISO-date prefix. Time-of-day suffixes are
// accepted and ignored; anything else is a malformed date.
func parseDate(raw any) (time.Time, error) {
	if t, ok := raw.(time.Time); ok {
		return t, nil
	}
	s := strings.TrimSpace(fmt.Sprint(raw))
	m := isoDatePrefix.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not an ISO date: %q", s)
	}
	t, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func parseInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return strconv.Atoi(strings.TrimSpace(fmt.Sprint(raw)))
	}
}

func parseFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(raw)), 64)
	}
}

func parseBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	default:
		switch strings.ToLower(strings.TrimSpace(fmt.Sprint(raw))) {
		case "true", "yes", "y", "1":
			return true
		}
	}
	return false
}
