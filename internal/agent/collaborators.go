package agent

import (
	"context"
	"fmt"
	"strings"

	"foxie/internal/fields"
	"foxie/internal/filegen"
	"foxie/internal/llm"
	"foxie/internal/llmtool"
)

// historyWindow is how many recent thoughts, actions and observations the
// reasoner sees.
const historyWindow = 3

type planReply struct {
	Files []string `json:"files" prompt_desc:"Ordered relative file paths, dependencies first."`
}

var (
	planFields     = llmtool.MustFieldsFromStruct(planReply{})
	planSchema     = llmtool.MustSchemaFromStruct(planReply{})
	decisionFields = llmtool.MustFieldsFromStruct(Decision{})
	decisionSchema = llmtool.MustSchemaFromStruct(Decision{})
)

// LLMPlanner asks the model for the file plan.
type LLMPlanner struct {
	Client llm.LLMClient
}

func (p LLMPlanner) Plan(ctx context.Context, proj filegen.Project) ([]string, error) {
	example := filegen.Paths(filegen.DefaultPlan(proj.Resource))
	spec := llmtool.StructuredPromptSpec{
		Purpose:    "List every file needed for a complete CRUD feature of a gin service.",
		Background: "You are a senior Go engineer planning the implementation before writing code.",
		Input: map[string]any{
			"project_name": proj.Name,
			"resource":     proj.Resource,
			"fields":       fields.Format(proj.Fields),
			"backend":      proj.Backend.String(),
		},
		OutputFields: planFields,
		Rules: []string{
			"Order files so that dependencies come first.",
			"Use forward-slash paths relative to the project root.",
			"Follow the layout of the example exactly.",
		},
		OutputFormat: `{"files": ["` + strings.Join(example, `", "`) + `"]}`,
	}
	prompt, err := llmtool.Render(llmtool.ApplyPresets(spec, llmtool.PresetStrictJSON()))
	if err != nil {
		return nil, err
	}
	ctx = llm.WithTemperature(llm.WithPhase(ctx, "plan"), filegen.Temperature)
	raw, err := p.Client.GenerateJSON(ctx, prompt, planSchema)
	if err != nil {
		return nil, err
	}
	if reply, err := llmtool.Decode[planReply](raw); err == nil && len(reply.Files) > 0 {
		return reply.Files, nil
	}
	list, err := llmtool.Decode[[]string](raw)
	if err != nil {
		return nil, err
	}
	return list, nil
}

type reasonInput struct {
	ProjectName        string   `json:"project_name"`
	Resource           string   `json:"resource"`
	Fields             string   `json:"fields"`
	Step               int      `json:"step"`
	MaxSteps           int      `json:"max_steps"`
	Generated          []string `json:"generated_files"`
	Validated          []string `json:"validated_files"`
	Pending            []string `json:"pending_files"`
	ValidationErrors   []string `json:"last_validation_errors,omitempty"`
	RecentThoughts     []string `json:"recent_thoughts,omitempty"`
	RecentActions      []string `json:"recent_actions,omitempty"`
	RecentObservations []string `json:"recent_observations,omitempty"`
	Proposed           Action   `json:"proposed_action"`
	ProposedFile       string   `json:"proposed_file,omitempty"`
}

// LLMReasoner asks the model for the next action.
type LLMReasoner struct {
	Client llm.LLMClient
}

func (r LLMReasoner) Reason(ctx context.Context, s State) (Decision, error) {
	if s.AllValidated() {
		return Decision{Reasoning: "All planned files are generated and validated.", NextAction: ActionComplete}, nil
	}
	prompt, err := ReasonPrompt(s)
	if err != nil {
		return Decision{}, err
	}
	ctx = llm.WithTemperature(llm.WithPhase(ctx, "reason"), filegen.Temperature)
	raw, err := r.Client.GenerateJSON(ctx, prompt, decisionSchema)
	if err != nil {
		return Decision{}, err
	}
	d, err := llmtool.Decode[Decision](raw)
	if err != nil {
		return Decision{}, err
	}
	d.NextAction = Action(strings.ToLower(strings.TrimSpace(string(d.NextAction))))
	switch d.NextAction {
	case ActionPlan, ActionGenerate, ActionValidate, ActionFix, ActionComplete:
		return d, nil
	}
	return Decision{}, fmt.Errorf("agent: unknown action %q", d.NextAction)
}

// ReasonPrompt renders the context summary sent to the reasoner.
func ReasonPrompt(s State) (string, error) {
	in := reasonInput{
		ProjectName:        s.Input.Name,
		Resource:           s.Input.Resource,
		Fields:             fields.Format(s.Input.Fields),
		Step:               s.CurrentStep + 1,
		MaxSteps:           s.MaxSteps,
		Generated:          generatedPaths(s),
		Validated:          s.Validated,
		Pending:            s.Pending(),
		ValidationErrors:   s.LastValidationErrors,
		RecentThoughts:     tail(s.Thoughts, historyWindow),
		RecentActions:      tail(s.Actions, historyWindow),
		RecentObservations: tail(s.Observations, historyWindow),
		Proposed:           s.NextAction,
		ProposedFile:       s.CurrentFile,
	}
	spec := llmtool.StructuredPromptSpec{
		Purpose:      "Decide the next action while building a CRUD feature one file at a time.",
		Background:   "You are an autonomous senior Go engineer following a reason-then-act loop. Each file is validated right after it is generated.",
		Input:        in,
		OutputFields: decisionFields,
		Rules: []string{
			"generate: create the most fundamental pending file (dependencies first).",
			"validate: re-check a generated file that is not yet validated.",
			"fix: regenerate a file whose validation found errors.",
			"complete: every planned file is generated and validated.",
			"target_file must be one of the planned files.",
		},
		OutputFormat: `{"reasoning": "...", "next_action": "generate", "target_file": "..."}`,
	}
	return llmtool.Render(llmtool.ApplyPresets(spec, llmtool.PresetStrictJSON(), llmtool.PresetNoInvent()))
}

func generatedPaths(s State) []string {
	out := make([]string, 0, len(s.Generated))
	for _, r := range s.Generated {
		out = append(out, r.File.FilePath)
	}
	return out
}

func tail(xs []string, n int) []string {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
