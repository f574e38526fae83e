package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func writeWorkbook(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func TestReadAllCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lots.csv",
		"batchId,date,source,errorTypes\n"+
			"LOT-1,2025-01-10,internal,\n"+
			"LOT-2,2025-01-11,internal,Documentation\n")

	recs, manifest, err := New().ReadAll(context.Background(), []string{path}, nil)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].ID != "LOT-1" || recs[1].ID != "LOT-2" {
		t.Errorf("IDs = %q, %q", recs[0].ID, recs[1].ID)
	}
	if !recs[1].HasErrors {
		t.Error("LOT-2 should carry its error type")
	}

	if len(manifest) != 1 || manifest[0].Name != "lots.csv" || manifest[0].Records != 2 {
		t.Errorf("manifest = %+v, want lots.csv with 2 records", manifest)
	}
	if len(manifest[0].Checksum) != 16 {
		t.Errorf("checksum = %q, want 16 hex chars", manifest[0].Checksum)
	}
}

func TestReadAllJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lots.json",
		`[{"batchId": "LOT-1", "date": "2025-01-10", "source": "external", "status": "Open"}]`)

	recs, _, err := New().ReadAll(context.Background(), []string{path}, nil)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(recs) != 1 || !recs[0].IsOpen() {
		t.Errorf("records = %+v, want one open external record", recs)
	}
}

func TestReadAllExcel(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "lots.xlsx", [][]any{
		{"batchId", "date", "source", "cycleTime"},
		{"LOT-1", "2025-01-10", "internal", 12.5},
		{"LOT-2", "2025-01-11", "process", nil}, // short row
	})

	recs, manifest, err := New().ReadAll(context.Background(), []string{path}, nil)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if !recs[0].HasCycleTime() || recs[0].CycleTime != 12.5 {
		t.Errorf("LOT-1 cycle time = %v, want 12.5", recs[0].CycleTime)
	}
	if recs[1].HasCycleTime() {
		t.Error("LOT-2 cycle time should be missing, not zero")
	}
	if manifest[0].Records != 2 {
		t.Errorf("manifest records = %d, want 2", manifest[0].Records)
	}
}

func TestReadAllAbortsOnUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "batchId,date\nLOT-1,2025-01-10\n")
	missing := filepath.Join(dir, "missing.csv")

	_, _, err := New().ReadAll(context.Background(), []string{good, missing}, nil)
	if err == nil {
		t.Fatal("ReadAll() succeeded despite unreadable input")
	}
	if !strings.Contains(err.Error(), "missing.csv") {
		t.Errorf("error %q does not name the failing file", err)
	}
}

func TestReadAllUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lots.txt", "not a table")

	if _, _, err := New().ReadAll(context.Background(), []string{path}, nil); err == nil {
		t.Fatal("ReadAll() accepted an unsupported format")
	}
}

func TestReadAllProgress(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "batchId,date\nL1,2025-01-10\n")
	b := writeFile(t, dir, "b.csv", "batchId,date\nL2,2025-01-10\n")

	var ticks atomic.Int64
	onProgress := func() { ticks.Add(1) }

	if _, _, err := New(WithMaxWorkers(2)).ReadAll(context.Background(), []string{a, b}, onProgress); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got := ticks.Load(); got != 2 {
		t.Errorf("progress ticked %d times, want 2", got)
	}
}

func TestReadAllPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()

	// The first file is far larger than the rest, so with concurrent workers
	// it finishes last. Manifest and record order must still follow the input
	// order, not completion order.
	var big strings.Builder
	big.WriteString("batchId,date\n")
	for i := 0; i < 20000; i++ {
		fmt.Fprintf(&big, "BIG-%d,2025-01-10\n", i)
	}
	paths := []string{writeFile(t, dir, "a_big.csv", big.String())}
	for i := 1; i <= 7; i++ {
		name := fmt.Sprintf("f%d.csv", i)
		paths = append(paths, writeFile(t, dir, name,
			fmt.Sprintf("batchId,date\nTINY-%d,2025-01-10\n", i)))
	}

	recs, manifest, err := New(WithMaxWorkers(4)).ReadAll(context.Background(), paths, nil)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := []string{"a_big.csv", "f1.csv", "f2.csv", "f3.csv", "f4.csv", "f5.csv", "f6.csv", "f7.csv"}
	if len(manifest) != len(want) {
		t.Fatalf("manifest has %d entries, want %d", len(manifest), len(want))
	}
	for i, name := range want {
		if manifest[i].Name != name {
			t.Fatalf("manifest[%d] = %q, want %q (completion order leaked into output)", i, manifest[i].Name, name)
		}
	}

	if recs[0].ID != "BIG-0" {
		t.Errorf("first record = %q, want BIG-0 from the first input file", recs[0].ID)
	}
	if last := recs[len(recs)-1].ID; last != "TINY-7" {
		t.Errorf("last record = %q, want TINY-7 from the last input file", last)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "x\n")
	writeFile(t, dir, "a.xlsx", "x")
	writeFile(t, dir, "notes.txt", "x")

	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "c.json", "[]")

	isData := func(p string) bool {
		switch filepath.Ext(p) {
		case ".csv", ".xlsx", ".json":
			return true
		}
		return false
	}

	files, err := Scan([]string{dir}, isData)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("Scan() found %d files, want 3: %v", len(files), files)
	}
	// Sorted, text file excluded, nested directory walked.
	if filepath.Base(files[0]) != "a.xlsx" || filepath.Base(files[2]) != "c.json" {
		t.Errorf("files = %v, want sorted [a.xlsx b.csv nested/c.json]", files)
	}
}

func TestScanMissingPath(t *testing.T) {
	if _, err := Scan([]string{"/definitely/not/here"}, func(string) bool { return true }); err == nil {
		t.Fatal("Scan() succeeded on a missing path")
	}
}

func TestScanDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.csv", "x\n")

	files, err := Scan([]string{path, path}, func(string) bool { return true })
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("Scan() returned %d entries for a duplicated path, want 1", len(files))
	}
}
