package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	genai "google.golang.org/genai"
)

// Responder produces one scripted reply.
type Responder func(prompt string) (json.RawMessage, error)

// Reply returns a fixed JSON document.
func Reply(raw string) Responder {
	return func(string) (json.RawMessage, error) { return json.RawMessage(raw), nil }
}

// ReplyValue marshals v once and returns it on every call.
func ReplyValue(v any) Responder {
	b, err := json.Marshal(v)
	return func(string) (json.RawMessage, error) {
		if err != nil {
			return nil, err
		}
		return json.RawMessage(b), nil
	}
}

// Fail always returns err.
func Fail(err error) Responder {
	return func(string) (json.RawMessage, error) { return nil, err }
}

// Call records one request seen by ScriptedClient.
type Call struct {
	Phase  string
	Prompt string
}

// ScriptedClient returns deterministic replies per phase for offline use and
// tests. Each phase holds a queue; the last responder repeats once the queue
// drains.
type ScriptedClient struct {
	mu       sync.Mutex
	byPhase  map[string][]Responder
	fallback Responder
	calls    []Call
}

func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{byPhase: map[string][]Responder{}}
}

// On appends responders for phase.
func (s *ScriptedClient) On(phase string, rs ...Responder) *ScriptedClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPhase[phase] = append(s.byPhase[phase], rs...)
	return s
}

// Default sets the responder used for phases without a script.
func (s *ScriptedClient) Default(r Responder) *ScriptedClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = r
	return s
}

func (s *ScriptedClient) Name() string { return "Scripted" }
func (s *ScriptedClient) Close() error { return nil }

func (s *ScriptedClient) GenerateJSON(ctx context.Context, prompt string, _ *genai.Schema) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	s.mu.Lock()
	s.calls = append(s.calls, Call{Phase: phase, Prompt: prompt})
	var r Responder
	if q := s.byPhase[phase]; len(q) > 0 {
		r = q[0]
		if len(q) > 1 {
			s.byPhase[phase] = q[1:]
		}
	} else {
		r = s.fallback
	}
	s.mu.Unlock()
	if r == nil {
		return nil, NewPermanentError(fmt.Errorf("scripted: no reply for phase %q", phase))
	}
	return r(prompt)
}

// Calls returns a copy of all recorded requests.
func (s *ScriptedClient) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsFor counts requests made in phase.
func (s *ScriptedClient) CallsFor(phase string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Phase == phase {
			n++
		}
	}
	return n
}
