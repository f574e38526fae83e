package main

import (
	"fmt"

	"github.com/seradyn/batchdash/internal/output"
	"github.com/seradyn/batchdash/pkg/analyzer/overview"
	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:     "overview [path...]",
	Aliases: []string{"ov"},
	Short:   "Show overall RFT rate and monthly trend",
	RunE:    runOverview,
}

func init() {
	overviewCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown, toon")
	overviewCmd.Flags().StringP("output", "o", "", "Write output to file")
	overviewCmd.Flags().Int("months", 0, "Trend window in months (default from config)")

	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	months, _ := cmd.Flags().GetInt("months")
	if months <= 0 {
		months = cfg.Analysis.TrendMonths
	}

	recs, err := loadRecords(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	analysis, err := overview.New(
		overview.WithTrendMonths(months),
		overview.WithTopErrorTypes(cfg.Analysis.TopErrorTypes),
	).Analyze(cmd.Context(), recs)
	if err != nil {
		return fmt.Errorf("overview analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, m := range analysis.MonthlyTrend {
		rows = append(rows, []string{
			m.Month,
			fmt.Sprintf("%d", m.RecordCount),
			fmt.Sprintf("%.1f%%", m.RFTRate),
			fmt.Sprintf("%.1f", m.AvgCycleTime),
		})
	}

	footer := []string{
		fmt.Sprintf("Records: %d", analysis.TotalRecords),
		"",
		fmt.Sprintf("Overall RFT: %.1f%%", analysis.OverallRFTRate),
		fmt.Sprintf("Avg Cycle: %.1f d", analysis.AvgCycleTimeDays),
	}

	table := output.NewTable(
		fmt.Sprintf("Batch Record Overview (Last %d Months)", months),
		[]string{"Month", "Records", "RFT Rate", "Avg Cycle (days)"},
		rows,
		footer,
		analysis,
	)

	if err := formatter.Output(table); err != nil {
		return err
	}

	if formatter.Format() == output.FormatText && analysis.Improvement != nil {
		fmt.Fprintf(formatter.Writer(), "Improvement: %.1f%% -> %.1f%% (%+.1f%%)\n",
			analysis.Improvement.PreviousRFTRate,
			analysis.Improvement.RecentRFTRate,
			analysis.Improvement.ChangePercent)
	}
	return nil
}
