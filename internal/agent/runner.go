package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"foxie/internal/filegen"
	"foxie/internal/logging"
	"foxie/internal/metrics"
	"foxie/internal/types"
)

// Planner proposes the ordered file list for a project.
type Planner interface {
	Plan(ctx context.Context, p filegen.Project) ([]string, error)
}

// Reasoner chooses the next action from the current state.
type Reasoner interface {
	Reason(ctx context.Context, s State) (Decision, error)
}

// FileGenerator produces one file. *filegen.Generator implements it.
type FileGenerator interface {
	Generate(ctx context.Context, t filegen.Target, p filegen.Project, related map[string]string) (types.GeneratedFile, error)
}

// Result is the outcome of a run. It is always returned, complete or not.
type Result struct {
	PlannedFiles   []string     `json:"planned_files"`
	GeneratedFiles []FileRecord `json:"generated_files"`
	ValidatedFiles []string     `json:"validated_files"`
	TotalSteps     int          `json:"total_steps"`
	IsComplete     bool         `json:"is_complete"`
	Thoughts       []string     `json:"thought_history"`
	Actions        []string     `json:"action_history"`
	Observations   []string     `json:"observation_history"`
}

// Code returns the generated files in generation order.
func (r Result) Code() types.GeneratedCode {
	files := make([]types.GeneratedFile, 0, len(r.GeneratedFiles))
	for _, f := range r.GeneratedFiles {
		files = append(files, f.File)
	}
	return types.GeneratedCode{Files: files}
}

// Runner drives the Machine by executing its effects.
type Runner struct {
	Machine   Machine
	Planner   Planner
	Reasoner  Reasoner
	Generator FileGenerator
	Emitter   Emitter
	Metrics   *metrics.Registry
	Log       *zap.Logger
}

// NewRunner wires the collaborators with the default Machine.
func NewRunner(planner Planner, reasoner Reasoner, gen FileGenerator, log *zap.Logger) *Runner {
	return &Runner{
		Machine:   NewMachine(),
		Planner:   planner,
		Reasoner:  reasoner,
		Generator: gen,
		Log:       logging.OrNop(log),
	}
}

// TransitionLimit bounds how many effects a run may execute. It sits well
// above what maxSteps decisions can need, so only the step ceiling in the
// reasoning step decides completion.
func TransitionLimit(maxSteps int) int {
	if n := 3*maxSteps + 10; n > 30 {
		return n
	}
	return 30
}

// Run executes one agent run. maxSteps < 1 means DefaultMaxSteps.
func (r *Runner) Run(ctx context.Context, in filegen.Project, maxSteps int) Result {
	log := logging.OrNop(r.Log)
	emitter := r.Emitter
	if emitter == nil {
		emitter = noopEmitter{}
	}
	m := r.Machine
	if m.Validate == nil {
		m = NewMachine()
	}

	s, eff := m.Reduce(State{}, Started{Input: in, MaxSteps: maxSteps})
	emitter.Emit(newTransition(0, s, eff, State{}))
	limit := TransitionLimit(s.MaxSteps)
	log.Info("agent run started",
		zap.String("project", in.Name),
		zap.String("resource", in.Resource),
		zap.Int("max_steps", s.MaxSteps))

	for seq := 1; eff.Kind != EffectDone; seq++ {
		if seq > limit {
			s = s.clone()
			s.Observations = append(s.Observations, fmt.Sprintf("Stopped after %d transitions", limit))
			log.Warn("agent transition limit reached", zap.Int("limit", limit))
			break
		}
		if err := ctx.Err(); err != nil {
			s = s.clone()
			s.Observations = append(s.Observations, "Run canceled: "+err.Error())
			break
		}
		prev := s
		s, eff = m.Reduce(s, r.perform(ctx, s, eff))
		emitter.Emit(newTransition(seq, s, eff, prev))
		log.Debug("agent transition",
			zap.Int("seq", seq),
			zap.String("node", string(s.Node)),
			zap.Stringer("effect", eff.Kind),
			zap.Int("step", s.CurrentStep))
	}

	if r.Metrics != nil {
		r.Metrics.AgentSteps.Observe(float64(s.CurrentStep))
	}
	log.Info("agent run finished",
		zap.Int("steps", s.CurrentStep),
		zap.Int("generated", len(s.Generated)),
		zap.Int("validated", len(s.Validated)),
		zap.Bool("complete", s.IsComplete))
	return resultOf(s)
}

func (r *Runner) perform(ctx context.Context, s State, eff Effect) Event {
	switch eff.Kind {
	case EffectPlanFiles:
		paths, err := r.Planner.Plan(ctx, s.Input)
		return Planned{Paths: paths, Err: err}
	case EffectReason:
		d, err := r.Reasoner.Reason(ctx, s)
		return Decided{Decision: d, Err: err}
	case EffectGenerateFile:
		f, err := r.Generator.Generate(ctx, eff.Target, s.Input, s.Contents())
		return FileGenerated{Target: eff.Target, File: f, Err: err}
	}
	return Decided{Err: fmt.Errorf("agent: unexpected effect %s", eff.Kind)}
}

func resultOf(s State) Result {
	return Result{
		PlannedFiles:   s.PlannedFiles(),
		GeneratedFiles: append([]FileRecord(nil), s.Generated...),
		ValidatedFiles: append([]string(nil), s.Validated...),
		TotalSteps:     s.CurrentStep,
		IsComplete:     s.IsComplete,
		Thoughts:       append([]string(nil), s.Thoughts...),
		Actions:        append([]string(nil), s.Actions...),
		Observations:   append([]string(nil), s.Observations...),
	}
}
