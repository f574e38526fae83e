// Package ingest reads raw lot/batch rows from Excel workbooks, CSV exports,
// and JSON dumps, and normalizes them into canonical records. Reading source
// files is the only I/O the engine performs before writing the document, and
// it is the only failure class allowed to abort a run.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/seradyn/batchdash/pkg/document"
	"github.com/seradyn/batchdash/pkg/records"
	"github.com/sourcegraph/conc/pool"
	"github.com/xuri/excelize/v2"
)

// Ingestor reads source files into canonical records.
type Ingestor struct {
	sheet      string
	maxWorkers int
}

// Option is a functional option for configuring Ingestor.
type Option func(*Ingestor)

// WithSheet selects the worksheet read from Excel workbooks. Empty selects
// the first sheet.
func WithSheet(sheet string) Option {
	return func(i *Ingestor) {
		i.sheet = sheet
	}
}

// WithMaxWorkers caps the number of files read concurrently.
func WithMaxWorkers(n int) Option {
	return func(i *Ingestor) {
		if n > 0 {
			i.maxWorkers = n
		}
	}
}

// New creates a new ingestor.
func New(opts ...Option) *Ingestor {
	i := &Ingestor{maxWorkers: 4}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ProgressFunc is called after each file is read.
type ProgressFunc func()

// fileResult pairs one file's normalized records with its manifest entry.
type fileResult struct {
	records  []records.Record
	manifest document.SourceFile
}

// ReadAll reads every file concurrently, normalizes rows, and returns the
// combined record array plus the source manifest in input order. Each worker
// writes into its own index slot so the output order never depends on which
// file finishes first. Any read failure aborts the run: retry policy for I/O
// belongs to the caller, not the engine.
func (i *Ingestor) ReadAll(ctx context.Context, paths []string, onProgress ProgressFunc) ([]records.Record, []document.SourceFile, error) {
	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithMaxGoroutines(i.maxWorkers)

	results := make([]fileResult, len(paths))
	for idx, path := range paths {
		idx, path := idx, path
		p.Go(func(ctx context.Context) error {
			if onProgress != nil {
				defer onProgress()
			}
			res, err := i.readOne(path)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	var recs []records.Record
	manifest := make([]document.SourceFile, 0, len(results))
	for _, res := range results {
		recs = append(recs, res.records...)
		manifest = append(manifest, res.manifest)
	}
	return recs, manifest, nil
}

func (i *Ingestor) readOne(path string) (fileResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	rows, err := i.parseRows(path, raw)
	if err != nil {
		return fileResult{}, err
	}

	recs := records.NormalizeAll(rows)
	return fileResult{
		records: recs,
		manifest: document.SourceFile{
			Name:     filepath.Base(path),
			Records:  len(recs),
			Checksum: fmt.Sprintf("%016x", xxhash.Sum64(raw)),
		},
	}, nil
}

func (i *Ingestor) parseRows(path string, raw []byte) ([]map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return i.parseExcel(path, raw)
	case ".csv":
		return parseCSV(path, raw)
	case ".json":
		return parseJSON(path, raw)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", path)
	}
}

// parseExcel reads the configured worksheet (or the first one) and maps each
// data row against the header row. Short rows are padded with empty cells,
// which the normalizer treats as missing fields.
func (i *Ingestor) parseExcel(path string, raw []byte) ([]map[string]any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := i.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q in %s: %w", sheet, path, err)
	}
	if len(cells) < 2 {
		return nil, nil
	}

	return rowsFromTable(cells[0], cells[1:]), nil
}

func parseCSV(path string, raw []byte) ([]map[string]any, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(cells) < 2 {
		return nil, nil
	}
	return rowsFromTable(cells[0], cells[1:]), nil
}

func parseJSON(path string, raw []byte) ([]map[string]any, error) {
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

// rowsFromTable zips a header row with data rows. Empty cells are omitted so
// the normalizer's missing-field warnings fire.
func rowsFromTable(header []string, data [][]string) []map[string]any {
	rows := make([]map[string]any, 0, len(data))
	for _, cells := range data {
		row := make(map[string]any, len(header))
		for col, name := range header {
			name = strings.TrimSpace(name)
			if name == "" || col >= len(cells) {
				continue
			}
			if value := strings.TrimSpace(cells[col]); value != "" {
				row[name] = value
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// Scan expands the given paths into a sorted list of data files. Directories
// are walked recursively; isDataFile decides which files qualify.
func Scan(paths []string, isDataFile func(string) bool) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}

		if !info.IsDir() {
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isDataFile(p) || seen[p] {
				return nil
			}
			seen[p] = true
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
