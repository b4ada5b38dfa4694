package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foxie/internal/filegen"
	"foxie/internal/metrics"
)

func TestRunTerminatesAtStepCeiling(t *testing.T) {
	for _, n := range []int{1, 2, 5, 12} {
		t.Run(fmt.Sprintf("max=%d", n), func(t *testing.T) {
			r := NewRunner(failingPlanner{}, followReasoner{}, alwaysFail{}, nil)
			res := r.Run(context.Background(), taskProject(), n)
			assert.Equal(t, n, res.TotalSteps)
			assert.True(t, res.IsComplete)
			assert.Empty(t, res.ValidatedFiles)
		})
	}
}

func TestRunHappyPathValidatesWholePlan(t *testing.T) {
	gen := newScriptedGenerator()
	r := NewRunner(failingPlanner{}, followReasoner{}, gen, nil)
	res := r.Run(context.Background(), taskProject(), 50)

	planned := filegen.Paths(filegen.DefaultPlan("task"))
	assert.True(t, res.IsComplete)
	assert.Equal(t, planned, res.PlannedFiles)
	assert.ElementsMatch(t, planned, res.ValidatedFiles)
	assert.Equal(t, 11, res.TotalSteps)
	assert.Less(t, res.TotalSteps, 50)
	assert.Equal(t, planned, gen.order)
	for _, f := range res.GeneratedFiles {
		assert.Equal(t, StatusValidated, f.Status)
	}
	assert.Len(t, res.Code().Files, 10)
	assert.Empty(t, res.Code().DuplicatePaths())
}

func TestRunPassesGeneratedFilesAsContext(t *testing.T) {
	gen := newScriptedGenerator()
	NewRunner(failingPlanner{}, followReasoner{}, gen, nil).Run(context.Background(), taskProject(), 50)

	assert.Empty(t, gen.related["internal/core/config.go"])
	assert.Contains(t, gen.related["internal/crud/task.go"], "internal/models/task.go")
	assert.Len(t, gen.related["main.go"], 9)
}

func TestRunSkipsFailedFileAndRetriesLater(t *testing.T) {
	base := "internal/models/base_model.go"
	gen := newScriptedGenerator().then(base, func() (string, error) { return "", errors.New("boom") })
	res := NewRunner(failingPlanner{}, followReasoner{}, gen, nil).Run(context.Background(), taskProject(), 50)

	require.True(t, res.IsComplete)
	assert.Len(t, res.ValidatedFiles, 10)
	assert.Equal(t, base, gen.order[2])
	assert.Equal(t, "internal/models/task.go", gen.order[3])
	assert.Equal(t, base, gen.order[len(gen.order)-1])
	assert.Contains(t, res.Observations, "Error: boom")
	assert.Contains(t, res.Actions, "Failed to generate "+base+": boom")
	assert.Equal(t, 12, res.TotalSteps)
}

func TestRunFixCycleRegeneratesBrokenFile(t *testing.T) {
	crud := "internal/crud/task.go"
	gen := newScriptedGenerator().then(crud, func() (string, error) { return "package crud\n\nfunc {\n", nil })
	res := NewRunner(failingPlanner{}, followReasoner{}, gen, nil).Run(context.Background(), taskProject(), 50)

	require.True(t, res.IsComplete)
	assert.Contains(t, res.Actions, "Generated "+crud+" (has errors)")
	assert.Contains(t, res.Actions, "Fixing "+crud+" by regenerating")
	assert.Contains(t, res.Actions, "Generated and validated "+crud)
	assert.Len(t, res.ValidatedFiles, 10)
	assert.Len(t, res.GeneratedFiles, 10)
	assert.Equal(t, 13, res.TotalSteps)

	var diffSeen bool
	for _, o := range res.Observations {
		if o == "Regenerated "+crud+": +1 -3 lines" {
			diffSeen = true
		}
	}
	assert.True(t, diffSeen, "observations: %v", res.Observations)
}

func TestRunFallsBackWhenReasoningFails(t *testing.T) {
	res := NewRunner(failingPlanner{}, brokenReasoner{}, newScriptedGenerator(), nil).Run(context.Background(), taskProject(), 50)

	assert.True(t, res.IsComplete)
	assert.Len(t, res.ValidatedFiles, 10)
	require.NotEmpty(t, res.Thoughts)
	assert.Contains(t, res.Thoughts[0], "Reasoning failed")
}

func TestRunEmitsTransitionsAndMetrics(t *testing.T) {
	var got []Transition
	reg := metrics.New()
	r := NewRunner(failingPlanner{}, followReasoner{}, newScriptedGenerator(), nil)
	r.Emitter = EmitterFunc(func(tr Transition) { got = append(got, tr) })
	r.Metrics = reg

	res := r.Run(context.Background(), taskProject(), 50)
	require.NotEmpty(t, got)
	for i, tr := range got {
		assert.Equal(t, i, tr.Seq)
	}
	last := got[len(got)-1]
	assert.True(t, last.Complete)
	assert.Equal(t, "done", last.Effect)
	assert.Equal(t, res.TotalSteps, last.Step)

	mfs, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	var count uint64
	for _, mf := range mfs {
		if mf.GetName() == "foxie_agent_steps" {
			count = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(1), count)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewRunner(failingPlanner{}, followReasoner{}, newScriptedGenerator(), nil).Run(ctx, taskProject(), 50)
	assert.False(t, res.IsComplete)
	assert.Contains(t, res.Observations[len(res.Observations)-1], "canceled")
}

func TestTransitionLimit(t *testing.T) {
	assert.Equal(t, 30, TransitionLimit(5))
	assert.Equal(t, 70, TransitionLimit(20))
}
