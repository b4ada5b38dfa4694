package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foxie/internal/filegen"
	"foxie/internal/llm"
)

func TestLLMPlannerAcceptsObjectOrArray(t *testing.T) {
	client := llm.NewScriptedClient().On("plan",
		llm.Reply(`{"files": ["main.go", "internal/models/task.go"]}`),
		llm.Reply("```json\n[\"internal/core/config.go\"]\n```"),
	)
	p := LLMPlanner{Client: client}

	got, err := p.Plan(context.Background(), taskProject())
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "internal/models/task.go"}, got)

	got, err = p.Plan(context.Background(), taskProject())
	require.NoError(t, err)
	assert.Equal(t, []string{"internal/core/config.go"}, got)

	calls := client.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].Prompt, "internal/crud/task.go")
	assert.Contains(t, calls[0].Prompt, "title:str, done:bool")
}

func TestLLMReasonerDecodesDecision(t *testing.T) {
	client := llm.NewScriptedClient().On("reason",
		llm.Reply(`{"reasoning": "config first", "next_action": "Generate", "target_file": "internal/core/config.go"}`),
		llm.Reply(`{"reasoning": "?", "next_action": "dance"}`),
	)
	r := LLMReasoner{Client: client}
	m := NewMachine()
	s := planned(t, m, 10)

	d, err := r.Reason(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, ActionGenerate, d.NextAction)
	assert.Equal(t, "internal/core/config.go", d.TargetFile)

	_, err = r.Reason(context.Background(), s)
	assert.ErrorContains(t, err, `unknown action "dance"`)
}

func TestLLMReasonerSkipsCallWhenEverythingValidated(t *testing.T) {
	client := llm.NewScriptedClient()
	s := State{
		Plan:      []filegen.Target{{Path: "main.go", Kind: filegen.KindMain}},
		Validated: []string{"main.go"},
	}
	d, err := LLMReasoner{Client: client}.Reason(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, ActionComplete, d.NextAction)
	assert.Empty(t, client.Calls())
}

func TestReasonPromptSummarisesState(t *testing.T) {
	m := NewMachine()
	s := planned(t, m, 10)
	s.Thoughts = []string{"t1", "t2", "t3", "t4"}

	out, err := ReasonPrompt(s)
	require.NoError(t, err)
	assert.Contains(t, out, `"pending_files"`)
	assert.Contains(t, out, `"proposed_action": "generate"`)
	assert.Contains(t, out, `"t4"`)
	assert.NotContains(t, out, `"t1"`)
	assert.Contains(t, out, "next_action (string, required)")
}
