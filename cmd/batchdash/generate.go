package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/fatih/color"
	"github.com/seradyn/batchdash/internal/ingest"
	"github.com/seradyn/batchdash/internal/progress"
	"github.com/seradyn/batchdash/internal/schema"
	"github.com/seradyn/batchdash/pkg/pipeline"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate [path...]",
	Aliases: []string{"gen"},
	Short:   "Transform batch record exports into the dashboard document",
	Long: `Reads every data file under the given paths, runs the section
analyzers, and writes the dashboard document as a single JSON file.

A section that fails degrades to its empty default so the dashboard always
has a complete document to load; only unreadable input aborts the run.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "Output file (default from config, dashboard.json)")
	generateCmd.Flags().Bool("skip-validate", false, "Skip schema validation of the generated document")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputPath := getOutputFile(cmd)
	if outputPath == "" {
		outputPath = cfg.Output.File
	}
	skipValidate, _ := cmd.Flags().GetBool("skip-validate")

	files, err := ingest.Scan(getPaths(args), cfg.IsDataFile)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no data files found (looking for %v)", cfg.Input.Extensions)
	}

	tracker := progress.NewTracker("Reading batch records...", len(files))
	ingestor := ingest.New(ingest.WithSheet(cfg.Input.Sheet))
	recs, manifest, err := ingestor.ReadAll(cmd.Context(), files, tracker.Tick)
	if err != nil {
		tracker.FinishError()
		return err
	}
	tracker.FinishSuccess()

	warned := 0
	for _, r := range recs {
		if len(r.Warnings) > 0 {
			warned++
		}
	}

	opts := []pipeline.Option{pipeline.WithConfig(cfg)}
	if cfg.Analysis.Jitter {
		opts = append(opts, pipeline.WithJitter(rand.New(rand.NewSource(cfg.Analysis.JitterSeed))))
	}

	spinner := progress.NewSpinner("Analyzing sections...")
	doc, failures := pipeline.New(opts...).Run(cmd.Context(), recs, manifest)
	spinner.FinishSuccess()

	reportSectionFailures(failures)

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	if !skipValidate {
		if err := schema.Validate(raw); err != nil {
			return err
		}
	}

	if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	color.Green("Dashboard document written: %s", outputPath)
	fmt.Printf("  Files: %d, Records: %d, Overall RFT: %.1f%%\n",
		len(manifest), len(recs), doc.OverallRFTRate)
	if warned > 0 {
		color.Yellow("  %d record(s) carried normalization warnings", warned)
		if verbose {
			for _, r := range recs {
				for _, w := range r.Warnings {
					fmt.Printf("    - %s: %s\n", r.ID, w)
				}
			}
		}
	}
	return nil
}
