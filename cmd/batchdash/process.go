package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/seradyn/batchdash/internal/output"
	"github.com/seradyn/batchdash/pkg/analyzer/process"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:     "process [path...]",
	Aliases: []string{"stages"},
	Short:   "Show per-stage durations and duration outliers",
	RunE:    runProcess,
}

func init() {
	processCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown, toon")
	processCmd.Flags().StringP("output", "o", "", "Write output to file")
	processCmd.Flags().Bool("outliers", false, "List individual outlier lots per stage")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	showOutliers, _ := cmd.Flags().GetBool("outliers")

	recs, err := loadRecords(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	analysis, err := process.New(
		process.WithTrendMonths(cfg.Analysis.TrendMonths),
	).Analyze(cmd.Context(), recs)
	if err != nil {
		return fmt.Errorf("process analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, stage := range analysis.Stages {
		name := stage.Name
		if formatter.Colored() && name == analysis.SlowestStage {
			name = color.RedString(name)
		}

		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", stage.Count),
			fmt.Sprintf("%.1f", stage.Stats.Mean),
			fmt.Sprintf("%.1f", stage.Stats.Median),
			fmt.Sprintf("%.1f", stage.Stats.Max),
			fmt.Sprintf("%d", len(stage.Outliers)),
		})
	}

	table := output.NewTable(
		"Process Stage Durations (days)",
		[]string{"Stage", "Lots", "Mean", "Median", "Max", "Outliers"},
		rows,
		[]string{
			fmt.Sprintf("Records: %d", analysis.RecordCount),
			"",
			fmt.Sprintf("Completion: %.1f%%", analysis.CompletionRate),
			"", "", "",
		},
		analysis,
	)

	if err := formatter.Output(table); err != nil {
		return err
	}

	if showOutliers && formatter.Format() == output.FormatText {
		w := formatter.Writer()
		for _, stage := range analysis.Stages {
			if len(stage.Outliers) == 0 {
				continue
			}
			fmt.Fprintf(w, "%s (threshold %.1f days):\n", stage.Name, stage.OutlierThreshold)
			for _, o := range stage.Outliers {
				fmt.Fprintf(w, "  - %s: %.1f days (+%.1f)\n", o.LotID, o.Days, o.ExcessDays)
			}
		}
	}
	return nil
}
