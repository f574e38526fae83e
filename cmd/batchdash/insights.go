package main

import (
	"fmt"
	"math/rand"

	"github.com/seradyn/batchdash/internal/output"
	"github.com/seradyn/batchdash/internal/progress"
	"github.com/seradyn/batchdash/pkg/pipeline"
	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights [path...]",
	Short: "Show ranked root causes and next-quarter RFT projection",
	RunE:  runInsights,
}

func init() {
	insightsCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown, toon")
	insightsCmd.Flags().StringP("output", "o", "", "Write output to file")
	insightsCmd.Flags().Bool("jitter", false, "Add bounded noise to the projection")

	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	jitter, _ := cmd.Flags().GetBool("jitter")

	recs, err := loadRecords(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	// Insights composes the other sections, so run the whole pipeline and
	// pick its insights out of the assembled document.
	opts := []pipeline.Option{pipeline.WithConfig(cfg)}
	if jitter || cfg.Analysis.Jitter {
		opts = append(opts, pipeline.WithJitter(rand.New(rand.NewSource(cfg.Analysis.JitterSeed))))
	}

	spinner := progress.NewSpinner("Analyzing sections...")
	doc, failures := pipeline.New(opts...).Run(cmd.Context(), recs, nil)
	spinner.FinishSuccess()
	reportSectionFailures(failures)

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, rc := range doc.Insights.RootCauses {
		rows = append(rows, []string{
			rc.Category,
			rc.Key,
			rc.Detail,
			rc.Recommendation,
		})
	}

	table := output.NewTable(
		"Root Causes and Recommendations",
		[]string{"Category", "Key", "Detail", "Recommendation"},
		rows,
		nil,
		doc.Insights,
	)

	if err := formatter.Output(table); err != nil {
		return err
	}

	if formatter.Format() == output.FormatText && len(doc.Insights.Projection) > 0 {
		w := formatter.Writer()
		fmt.Fprintln(w, "Projected RFT:")
		for _, p := range doc.Insights.Projection {
			fmt.Fprintf(w, "  %s: %.1f%%\n", p.Month, p.RFTRate)
		}
	}
	return nil
}
