package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foxie/internal/output"
	"foxie/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check the Go files of an existing project",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	code, err := output.ReadDir(args[0])
	if err != nil {
		return err
	}
	report := validate.Report(code.Files)
	printValidation(cmd, report)

	counts := validate.Count(report)
	fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d critical, %d warnings\n",
		len(code.Files), counts[validate.Critical], counts[validate.Warning])
	if counts[validate.Critical] > 0 {
		return fmt.Errorf("%d files failed to parse", len(criticalFiles(report)))
	}
	return nil
}

func criticalFiles(report map[string][]validate.Issue) []string {
	var out []string
	for _, p := range validate.SortedPaths(report) {
		if validate.HasCritical(report[p]) {
			out = append(out, p)
		}
	}
	return out
}
