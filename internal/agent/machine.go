package agent

import (
	"fmt"
	"strings"

	"foxie/internal/filegen"
	"foxie/internal/types"
	"foxie/internal/validate"
)

// DefaultMaxSteps is used when a run asks for no ceiling.
const DefaultMaxSteps = 50

// Event is fed to Reduce after the runner completes an effect.
type Event interface{ event() }

// Started begins a run.
type Started struct {
	Input    filegen.Project
	MaxSteps int
}

// Planned carries the planner's file list.
type Planned struct {
	Paths []string
	Err   error
}

// Decision is the output of one reasoning call.
type Decision struct {
	Reasoning  string `json:"reasoning" prompt_desc:"Short explanation of the choice."`
	NextAction Action `json:"next_action" prompt_enum:"generate|validate|fix|complete" prompt_desc:"What to do next."`
	TargetFile string `json:"target_file" prompt:"optional" prompt_desc:"Planned file path to act on; empty picks the next pending file."`
}

// Decided carries the reasoner's decision.
type Decided struct {
	Decision Decision
	Err      error
}

// FileGenerated carries the outcome of one file generation.
type FileGenerated struct {
	Target filegen.Target
	File   types.GeneratedFile
	Err    error
}

func (Started) event()       {}
func (Planned) event()       {}
func (Decided) event()       {}
func (FileGenerated) event() {}

// EffectKind is the work the runner performs next.
type EffectKind int

const (
	EffectPlanFiles EffectKind = iota
	EffectReason
	EffectGenerateFile
	EffectDone
)

func (k EffectKind) String() string {
	switch k {
	case EffectPlanFiles:
		return "plan_files"
	case EffectReason:
		return "reason"
	case EffectGenerateFile:
		return "generate_file"
	case EffectDone:
		return "done"
	}
	return "unknown"
}

// Effect asks the runner for one external call, or to stop.
type Effect struct {
	Kind   EffectKind
	Target filegen.Target
}

// Machine is the transition function. It calls no model; validation runs
// inline because it is local and deterministic.
type Machine struct {
	Validate func(content, path string) []validate.Issue
}

// NewMachine returns a Machine using the code validator.
func NewMachine() Machine {
	return Machine{Validate: validate.All}
}

// Reduce applies ev to s and returns the next state and effect.
func (m Machine) Reduce(s State, ev Event) (State, Effect) {
	s = s.clone()
	switch e := ev.(type) {
	case Started:
		return m.start(s, e)
	case Planned:
		return m.planned(s, e)
	case Decided:
		return m.decided(s, e)
	case FileGenerated:
		return m.generated(s, e)
	}
	s.Observations = append(s.Observations, fmt.Sprintf("ignored unknown event %T", ev))
	return s, Effect{Kind: EffectReason}
}

func (m Machine) start(s State, e Started) (State, Effect) {
	limit := e.MaxSteps
	if limit < 1 {
		limit = DefaultMaxSteps
	}
	s = State{
		Input:      e.Input,
		MaxSteps:   limit,
		Node:       NodePlan,
		NextAction: ActionPlan,
		discarded:  map[string]string{},
		failures:   map[string]int{},
	}
	return s, Effect{Kind: EffectPlanFiles}
}

func (m Machine) planned(s State, e Planned) (State, Effect) {
	var plan []filegen.Target
	if e.Err == nil {
		plan = filegen.Plan(e.Paths, s.Input.Resource)
	}
	switch {
	case e.Err != nil:
		plan = filegen.DefaultPlan(s.Input.Resource)
		s.Observations = append(s.Observations, fmt.Sprintf("Planning failed (%v); using default plan of %d files", e.Err, len(plan)))
	case len(plan) == 0:
		plan = filegen.DefaultPlan(s.Input.Resource)
		s.Observations = append(s.Observations, fmt.Sprintf("Plan was empty; using default plan of %d files", len(plan)))
	default:
		s.Observations = append(s.Observations, fmt.Sprintf("Planned %d files", len(plan)))
	}
	s.Plan = plan
	s.NextAction = ActionGenerate
	s.Node = NodeReason
	return s, Effect{Kind: EffectReason}
}

func (m Machine) decided(s State, e Decided) (State, Effect) {
	d := e.Decision
	if e.Err != nil {
		d = Decision{NextAction: s.NextAction}
		s.Thoughts = append(s.Thoughts, fmt.Sprintf("Reasoning failed (%v); continuing with %s", e.Err, s.NextAction))
	} else {
		s.Thoughts = append(s.Thoughts, strings.TrimSpace(d.Reasoning))
	}

	next := s.CurrentStep + 1
	s.CurrentStep = next
	if next >= s.MaxSteps {
		d.NextAction = ActionComplete
	}
	s.IsComplete = d.NextAction == ActionComplete || s.AllValidated() || next >= s.MaxSteps
	s.CurrentFile = filegen.Normalize(d.TargetFile)
	s.NextAction = d.NextAction
	if s.IsComplete {
		s.Node = NodeComplete
		return s, Effect{Kind: EffectDone}
	}

	switch d.NextAction {
	case ActionGenerate:
		return m.generate(s)
	case ActionValidate:
		return m.validateFile(s)
	case ActionFix:
		return m.fix(s)
	}
	// "plan" and anything unrecognised loop back to reasoning.
	s.Node = NodeReason
	return s, Effect{Kind: EffectReason}
}

func (m Machine) generate(s State) (State, Effect) {
	s.Node = NodeGenerate
	if s.CurrentFile != "" {
		if t, ok := s.target(s.CurrentFile); ok {
			return s, Effect{Kind: EffectGenerateFile, Target: t}
		}
		s.Observations = append(s.Observations, fmt.Sprintf("%s is not in the plan; skipped", s.CurrentFile))
	}
	if pending := s.Pending(); len(pending) > 0 {
		// Files that already failed go to the back of the queue.
		next := pending[0]
		for _, p := range pending {
			if s.failures[p] == 0 {
				next = p
				break
			}
		}
		t, _ := s.target(next)
		s.CurrentFile = t.Path
		return s, Effect{Kind: EffectGenerateFile, Target: t}
	}
	for _, r := range s.Generated {
		if !s.IsValidated(r.File.FilePath) {
			s.Observations = append(s.Observations, fmt.Sprintf("No pending files; %s still has issues", r.File.FilePath))
			s.CurrentFile = r.File.FilePath
			s.NextAction = ActionFix
			s.Node = NodeReason
			return s, Effect{Kind: EffectReason}
		}
	}
	s.Observations = append(s.Observations, "No pending files")
	s.NextAction = ActionComplete
	s.Node = NodeReason
	return s, Effect{Kind: EffectReason}
}

func (m Machine) generated(s State, e FileGenerated) (State, Effect) {
	path := e.Target.Path
	s.CurrentFile = path
	s.Node = NodeReason
	if e.Err != nil {
		s.failures[path]++
		s.Actions = append(s.Actions, fmt.Sprintf("Failed to generate %s: %v", path, e.Err))
		s.Observations = append(s.Observations, fmt.Sprintf("Error: %v", e.Err))
		s.NextAction = ActionGenerate
		return s, Effect{Kind: EffectReason}
	}

	delete(s.failures, path)
	f := e.File
	f.FilePath = path
	if old, ok := s.discarded[path]; ok {
		s.Observations = append(s.Observations, diffSummary(path, old, f.Content))
		delete(s.discarded, path)
	}
	s.putFile(f)
	issues := m.Validate(f.Content, path)
	if len(issues) == 0 {
		s.markValidated(path)
		s.LastValidationErrors = nil
		s.Actions = append(s.Actions, "Generated and validated "+path)
		s.Observations = append(s.Observations, path+" passed all validations")
		s.NextAction = ActionGenerate
		return s, Effect{Kind: EffectReason}
	}
	s.unmarkValidated(path)
	s.LastFailed = path
	s.LastValidationErrors = validate.Messages(issues)
	s.Actions = append(s.Actions, fmt.Sprintf("Generated %s (has errors)", path))
	s.Observations = append(s.Observations, fmt.Sprintf("%s has %d issue(s)", path, len(issues)))
	s.NextAction = ActionFix
	return s, Effect{Kind: EffectReason}
}

func (m Machine) validateFile(s State) (State, Effect) {
	s.Node = NodeValidate
	path := s.CurrentFile
	if path == "" && len(s.Generated) > 0 {
		path = s.Generated[len(s.Generated)-1].File.FilePath
	}
	rec, ok := s.file(path)
	if !ok {
		if path == "" {
			s.Observations = append(s.Observations, "No generated file to validate")
		} else {
			s.Observations = append(s.Observations, fmt.Sprintf("File %s not generated yet", path))
		}
		s.NextAction = ActionGenerate
		s.Node = NodeReason
		return s, Effect{Kind: EffectReason}
	}
	s.CurrentFile = path
	issues := m.Validate(rec.File.Content, path)
	if len(issues) == 0 {
		s.markValidated(path)
		s.Actions = append(s.Actions, "Validated "+path)
		s.Observations = append(s.Observations, path+" passed all validations")
		s.NextAction = ActionGenerate
	} else {
		s.unmarkValidated(path)
		s.LastFailed = path
		s.LastValidationErrors = validate.Messages(issues)
		s.Actions = append(s.Actions, "Validated "+path+" (has errors)")
		s.Observations = append(s.Observations, fmt.Sprintf("%s has %d issue(s)", path, len(issues)))
		s.NextAction = ActionFix
	}
	s.Node = NodeReason
	return s, Effect{Kind: EffectReason}
}

func (m Machine) fix(s State) (State, Effect) {
	s.Node = NodeFix
	path := s.CurrentFile
	if path == "" {
		path = s.LastFailed
	}
	if path == "" {
		s.Observations = append(s.Observations, "Nothing to fix")
		s.NextAction = ActionGenerate
		s.Node = NodeReason
		return s, Effect{Kind: EffectReason}
	}
	if old, ok := s.removeFile(path); ok {
		s.discarded[path] = old.Content
	}
	s.unmarkValidated(path)
	s.CurrentFile = path
	s.Actions = append(s.Actions, fmt.Sprintf("Fixing %s by regenerating", path))
	s.NextAction = ActionGenerate
	s.Node = NodeReason
	return s, Effect{Kind: EffectReason}
}
