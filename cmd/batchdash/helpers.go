package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/seradyn/batchdash/internal/ingest"
	"github.com/seradyn/batchdash/internal/progress"
	"github.com/seradyn/batchdash/pkg/config"
	"github.com/seradyn/batchdash/pkg/pipeline"
	"github.com/seradyn/batchdash/pkg/records"
	"github.com/spf13/cobra"
)

// getPaths returns paths from args, defaulting to ["."]
func getPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

// getFormat returns the format flag value from the command.
func getFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	return format
}

// getOutputFile returns the output file path from the command.
func getOutputFile(cmd *cobra.Command) string {
	outputFile, _ := cmd.Flags().GetString("output")
	return outputFile
}

// loadConfig loads the config named by --config, or searches standard
// locations.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadOrDefault(), nil
}

// loadRecords scans the given paths for data files and reads them into the
// shared record array. Used by every command that analyzes records.
func loadRecords(ctx context.Context, args []string, cfg *config.Config) ([]records.Record, error) {
	files, err := ingest.Scan(getPaths(args), cfg.IsDataFile)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no data files found (looking for %v)", cfg.Input.Extensions)
	}

	tracker := progress.NewTracker("Reading batch records...", len(files))
	ingestor := ingest.New(ingest.WithSheet(cfg.Input.Sheet))
	recs, _, err := ingestor.ReadAll(ctx, files, tracker.Tick)
	if err != nil {
		tracker.FinishError()
		return nil, err
	}
	tracker.FinishSuccess()
	return recs, nil
}

// reportSectionFailures warns about sections that fell back to their empty
// defaults.
func reportSectionFailures(failures []pipeline.SectionError) {
	for _, f := range failures {
		color.Yellow("Warning: section %v", f)
	}
}
