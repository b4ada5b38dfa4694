package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

// fast fake client that returns immediately
type fastClient struct{}

func (f *fastClient) Name() string { return "fast" }
func (f *fastClient) Close() error { return nil }
func (f *fastClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

// spy records timestamps when requests reach the inner client
type spyingClient struct {
	next  LLMClient
	times []time.Time
}

func (s *spyingClient) Name() string { return s.next.Name() }
func (s *spyingClient) Close() error { return s.next.Close() }
func (s *spyingClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	s.times = append(s.times, time.Now())
	return s.next.GenerateJSON(ctx, prompt, schema)
}

func TestRate_RPS_2PerSecond_Burst1_Spacing(t *testing.T) {
	spy := &spyingClient{next: &fastClient{}}
	cli := Wrap(spy, RateLimit(2, 1))
	t.Cleanup(func() { _ = cli.Close() })

	ctx := context.Background()
	start := time.Now()
	_, err := cli.GenerateJSON(ctx, "p", nil)
	require.NoError(t, err)
	_, err = cli.GenerateJSON(ctx, "p", nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 450*time.Millisecond)
	assert.Len(t, spy.times, 2)
}

func TestRate_DisabledIsPassThrough(t *testing.T) {
	cli := RateLimit(0, 0)(&fastClient{})
	start := time.Now()
	for i := 0; i < 5; i++ {
		_, err := cli.GenerateJSON(context.Background(), "p", nil)
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	require.NoError(t, cli.Close())
}

type recordingHook struct {
	before, after []string
}

func (h *recordingHook) Before(_ context.Context, phase, _ string) { h.before = append(h.before, phase) }
func (h *recordingHook) After(_ context.Context, phase string, _ json.RawMessage, _ error) {
	h.after = append(h.after, phase)
}

func TestWithHooks_UsesPhaseFromContext(t *testing.T) {
	hook := &recordingHook{}
	cli := Wrap(&fastClient{}, WithHooks())
	ctx := WithHook(WithPhase(context.Background(), "plan"), hook)

	_, err := cli.GenerateJSON(ctx, "p", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"plan"}, hook.before)
	assert.Equal(t, []string{"plan"}, hook.after)
}

func TestScriptedClient_QueuesAndRepeatsLast(t *testing.T) {
	s := NewScriptedClient().On("reason", Reply(`{"n":1}`), Reply(`{"n":2}`))
	ctx := WithPhase(context.Background(), "reason")
	for _, want := range []string{`{"n":1}`, `{"n":2}`, `{"n":2}`} {
		raw, err := s.GenerateJSON(ctx, "p", nil)
		require.NoError(t, err)
		assert.JSONEq(t, want, string(raw))
	}
	assert.Equal(t, 3, s.CallsFor("reason"))

	_, err := s.GenerateJSON(WithPhase(context.Background(), "other"), "p", nil)
	assert.Error(t, err)
}

func TestRate_StopReleasesWaiters(t *testing.T) {
	l := newRPSLimiter(0.1, 1)
	require.NoError(t, l.Acquire(context.Background()))

	done := make(chan error, 1)
	go func() { done <- l.Acquire(context.Background()) }()
	time.Sleep(20 * time.Millisecond)
	l.Stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Stop")
	}
}
