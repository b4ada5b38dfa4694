package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foxie/internal/app"
	"foxie/internal/output"
	"foxie/internal/prompt"
	"foxie/internal/runlog"
)

var (
	generateFlags featureFlags
	generateMode  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a CRUD feature in one model call",
	Example: `  foxie generate -r task -f "title:str,done:bool"
  foxie generate -r note -f "body:text" --database-type mongodb --auth --protect-routes`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateFlags.register(generateCmd)
	generateCmd.Flags().StringVar(&generateMode, "mode", "", fmt.Sprintf("%s or %s (default %s)", prompt.ModeSplit, prompt.ModeCombined, prompt.ModeSplit))
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	req, err := generateFlags.request()
	if err != nil {
		return err
	}
	req.Mode = generateMode
	if req.Mode == "" {
		req.Mode = cfg.Mode
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	entry := runlog.Begin("oneshot", req.ProjectName, req.Resource, req.Backend)
	fmt.Fprintf(cmd.OutOrStdout(), "Generating %s for %s...\n", req.Resource, req.ProjectName)
	code, err := a.Service.GenerateCRUDFeature(ctx, req)
	if err != nil {
		recordRun(cmd, a, entry.Finish(0, 0, false, err))
		return err
	}
	dir, err := output.NewDirWriter(generateFlags.outDir(req.ProjectName), log).Write(ctx, code)
	recordRun(cmd, a, entry.Finish(len(code.Files), 0, err == nil, err))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files to %s\n", len(code.Files), dir)
	for _, f := range code.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f.FilePath)
	}
	printValidation(cmd, a.Service.Validate(code))
	return nil
}

func recordRun(cmd *cobra.Command, a *app.App, e runlog.Entry) {
	if err := a.Runs.Record(cmd.Context(), e); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: run log: %v\n", err)
	}
}
