package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/seradyn/batchdash/internal/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [document.json]",
	Short: "Validate a generated dashboard document against the schema",
	Long: `Checks that a dashboard document satisfies the structural contract the
reporting dashboard depends on: required sections present, rates within
0-100, month keys well-formed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := "dashboard.json"
	if len(args) > 0 {
		path = args[0]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := schema.Validate(raw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	color.Green("%s is valid", path)
	return nil
}
