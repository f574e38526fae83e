package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/seradyn/batchdash/internal/output"
	"github.com/seradyn/batchdash/pkg/analyzer/externalrft"
	"github.com/seradyn/batchdash/pkg/analyzer/internalrft"
	"github.com/spf13/cobra"
)

var rftCmd = &cobra.Command{
	Use:   "rft",
	Short: "Inspect right-first-time metrics",
}

var rftInternalCmd = &cobra.Command{
	Use:     "internal [path...]",
	Aliases: []string{"int"},
	Short:   "Internal RFT rate with error-type Pareto",
	RunE:    runRFTInternal,
}

var rftExternalCmd = &cobra.Command{
	Use:     "external [path...]",
	Aliases: []string{"ext"},
	Short:   "Customer complaint RFT with sentiment and lag correlation",
	RunE:    runRFTExternal,
}

func init() {
	rftCmd.PersistentFlags().StringP("format", "f", "text", "Output format: text, json, markdown, toon")
	rftCmd.PersistentFlags().StringP("output", "o", "", "Write output to file")

	rftCmd.AddCommand(rftInternalCmd)
	rftCmd.AddCommand(rftExternalCmd)
	rootCmd.AddCommand(rftCmd)
}

func runRFTInternal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	recs, err := loadRecords(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	analysis, err := internalrft.New(
		internalrft.WithTrendMonths(cfg.Analysis.TrendMonths),
	).Analyze(cmd.Context(), recs)
	if err != nil {
		return fmt.Errorf("internal RFT analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, item := range analysis.ErrorPareto {
		rows = append(rows, []string{
			item.Name,
			fmt.Sprintf("%d", item.Count),
			fmt.Sprintf("%.1f%%", item.Percentage),
			fmt.Sprintf("%.1f%%", item.Cumulative),
		})
	}

	table := output.NewTable(
		"Internal RFT: Error Pareto",
		[]string{"Error Type", "Count", "Share", "Cumulative"},
		rows,
		[]string{
			fmt.Sprintf("Records: %d", analysis.RecordCount),
			"",
			fmt.Sprintf("RFT: %.1f%%", analysis.RFTRate),
			"",
		},
		analysis,
	)

	return formatter.Output(table)
}

func runRFTExternal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	recs, err := loadRecords(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	analysis, err := externalrft.New(
		externalrft.WithTrendMonths(cfg.Analysis.TrendMonths),
		externalrft.WithMaxLag(cfg.Analysis.MaxLagMonths),
	).Analyze(cmd.Context(), recs)
	if err != nil {
		return fmt.Errorf("external RFT analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, item := range analysis.IssuePareto {
		rows = append(rows, []string{
			item.Name,
			fmt.Sprintf("%d", item.Count),
			fmt.Sprintf("%.1f%%", item.Percentage),
			fmt.Sprintf("%.1f%%", item.Cumulative),
		})
	}

	table := output.NewTable(
		"External RFT: Complaint Pareto",
		[]string{"Issue", "Count", "Share", "Cumulative"},
		rows,
		[]string{
			fmt.Sprintf("Records: %d", analysis.RecordCount),
			"",
			fmt.Sprintf("RFT: %.1f%%", analysis.RFTRate),
			fmt.Sprintf("Open: %.1f%%", analysis.OpenRate),
		},
		analysis,
	)

	if err := formatter.Output(table); err != nil {
		return err
	}

	if formatter.Format() == output.FormatText {
		w := formatter.Writer()
		fmt.Fprintf(w, "Sentiment: %d positive, %d negative, %d neutral\n",
			analysis.Sentiment.Positive, analysis.Sentiment.Negative, analysis.Sentiment.Neutral)
		if analysis.Sentiment.TopNegativeIssue != "" {
			fmt.Fprintf(w, "Top negative issue: %s\n", analysis.Sentiment.TopNegativeIssue)
		}
		if corr := analysis.InternalCorrelation; corr.Pairs > 0 {
			line := fmt.Sprintf("Internal correlation: r=%.2f at lag %d month(s) (%d pairs)",
				corr.Correlation, corr.Lag, corr.Pairs)
			if formatter.Colored() {
				color.Cyan("%s", line)
			} else {
				fmt.Fprintln(w, line)
			}
		}
	}
	return nil
}
