package scaffold

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"foxie/internal/agent"
	"foxie/internal/filegen"
	"foxie/internal/logging"
)

// AgentRequest is a Request run through the agent loop.
type AgentRequest struct {
	Request
	MaxSteps int `json:"max_steps"`
}

// RunAgent runs the plan/reason/act loop. Only invalid input is an error;
// model failures end up in the result's observations.
func (s *Service) RunAgent(ctx context.Context, r AgentRequest, emitter agent.Emitter) (agent.Result, error) {
	log := logging.OrNop(s.Log)
	sp, err := s.parse(r.Request)
	if err != nil {
		return agent.Result{}, err
	}
	client, err := s.NewClient(ctx, sp.key)
	if err != nil {
		return agent.Result{}, &GenerationError{Err: err}
	}
	defer client.Close()

	var examples filegen.Examples
	if s.Guides != nil {
		examples = s.Guides
	}
	runner := agent.NewRunner(
		agent.LLMPlanner{Client: client},
		agent.LLMReasoner{Client: client},
		filegen.New(client, examples, log),
		log,
	)
	runner.Emitter = emitter
	runner.Metrics = s.Metrics

	proj := filegen.Project{
		Name:          strings.TrimSpace(r.ProjectName),
		Resource:      strings.TrimSpace(r.Resource),
		Fields:        sp.fields,
		Backend:       sp.backend,
		AuthEnabled:   r.AuthEnabled,
		ProtectRoutes: r.ProtectRoutes,
	}
	res := runner.Run(ctx, proj, r.MaxSteps)
	outcome := "incomplete"
	if res.IsComplete {
		outcome = "ok"
	}
	if s.Metrics != nil {
		s.Metrics.ScaffoldRuns.WithLabelValues("agent", outcome).Inc()
	}
	log.Info("agent result",
		zap.Int("planned", len(res.PlannedFiles)),
		zap.Int("validated", len(res.ValidatedFiles)),
		zap.Bool("complete", res.IsComplete))
	return res, nil
}
