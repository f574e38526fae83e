package main

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "batchdash",
	Short: "Manufacturing batch record dashboard generator",
	Long: `Batchdash transforms batch record exports (Excel, CSV, JSON) into a
single dashboard document covering right-first-time rates, process stage
durations, customer complaint trends, and automated insights.

The document is written as plain JSON for consumption by the reporting
dashboard.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
}
