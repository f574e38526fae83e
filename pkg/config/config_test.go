package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Analysis.TrendMonths != 12 {
		t.Errorf("TrendMonths = %d, want 12", cfg.Analysis.TrendMonths)
	}
	if cfg.Analysis.TopErrorTypes != 3 {
		t.Errorf("TopErrorTypes = %d, want 3", cfg.Analysis.TopErrorTypes)
	}
	if cfg.Analysis.Jitter {
		t.Error("Jitter enabled by default; projections must be deterministic")
	}
	if cfg.Output.File != "dashboard.json" {
		t.Errorf("Output.File = %q, want dashboard.json", cfg.Output.File)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batchdash.toml")
	content := `
[analysis]
trend_months = 6
jitter = true

[output]
file = "out.json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Analysis.TrendMonths != 6 {
		t.Errorf("TrendMonths = %d, want 6", cfg.Analysis.TrendMonths)
	}
	if !cfg.Analysis.Jitter {
		t.Error("Jitter = false, want true from file")
	}
	if cfg.Output.File != "out.json" {
		t.Errorf("Output.File = %q, want out.json", cfg.Output.File)
	}
	// Unset keys keep their defaults.
	if cfg.Analysis.TopErrorTypes != 3 {
		t.Errorf("TopErrorTypes = %d, want default 3", cfg.Analysis.TopErrorTypes)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batchdash.yaml")
	content := "analysis:\n  max_lag_months: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Analysis.MaxLagMonths != 2 {
		t.Errorf("MaxLagMonths = %d, want 2", cfg.Analysis.MaxLagMonths)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/no/such/config.toml"); err == nil {
		t.Error("Load() succeeded on a missing file")
	}
}

func TestIsDataFile(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"lots.xlsx", true},
		{"LOTS.XLSX", true},
		{"history.xlsm", true},
		{"export.csv", true},
		{"dump.json", true},
		{"readme.md", false},
		{"archive.zip", false},
	}

	for _, tt := range tests {
		if got := cfg.IsDataFile(tt.path); got != tt.want {
			t.Errorf("IsDataFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
