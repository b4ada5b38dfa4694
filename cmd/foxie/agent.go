package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foxie/internal/agent"
	"foxie/internal/app"
	"foxie/internal/output"
	"foxie/internal/runlog"
	"foxie/internal/scaffold"
)

var (
	agentFlags    featureFlags
	agentMaxSteps int
	agentVerbose  bool
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Generate a CRUD feature file by file with the ReAct agent",
	Long: `The agent plans the file list, then reasons about one action per step:
generate the next file, validate it, or regenerate a file that failed checks.`,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
	agentFlags.register(agentCmd)
	agentCmd.Flags().IntVar(&agentMaxSteps, "max-steps", 0, fmt.Sprintf("reasoning step ceiling (default %d)", agent.DefaultMaxSteps))
	agentCmd.Flags().BoolVarP(&agentVerbose, "verbose", "v", false, "print thoughts as well as actions")
}

func runAgent(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	req, err := agentFlags.request()
	if err != nil {
		return err
	}
	steps := agentMaxSteps
	if steps <= 0 {
		steps = cfg.MaxSteps
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	emitter := agent.EmitterFunc(func(t agent.Transition) {
		if agentVerbose && t.Thought != "" {
			fmt.Fprintf(w, "[%d/%d] thought: %s\n", t.Step, t.MaxSteps, t.Thought)
		}
		if t.Action != "" {
			fmt.Fprintf(w, "[%d/%d] %s\n", t.Step, t.MaxSteps, t.Action)
		}
		if agentVerbose && t.Observation != "" {
			fmt.Fprintf(w, "        %s\n", t.Observation)
		}
	})

	entry := runlog.Begin("agent", req.ProjectName, req.Resource, req.Backend)
	res, err := a.Service.RunAgent(ctx, scaffold.AgentRequest{Request: req, MaxSteps: steps}, emitter)
	if err != nil {
		recordRun(cmd, a, entry.Finish(0, 0, false, err))
		return err
	}
	code := res.Code()
	dir, err := output.NewDirWriter(agentFlags.outDir(req.ProjectName), log).Write(ctx, code)
	recordRun(cmd, a, entry.Finish(len(code.Files), res.TotalSteps, res.IsComplete && err == nil, err))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSteps: %d  planned: %d  generated: %d  validated: %d\n",
		res.TotalSteps, len(res.PlannedFiles), len(res.GeneratedFiles), len(res.ValidatedFiles))
	fmt.Fprintf(w, "Wrote %d files to %s\n", len(code.Files), dir)
	if !res.IsComplete {
		fmt.Fprintln(w, "Agent stopped before every planned file was validated.")
	}
	return nil
}
