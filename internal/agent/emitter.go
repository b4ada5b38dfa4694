package agent

// Transition is emitted after every Reduce.
type Transition struct {
	Seq         int    `json:"seq"`
	Node        Node   `json:"node"`
	Effect      string `json:"effect"`
	Step        int    `json:"step"`
	MaxSteps    int    `json:"max_steps"`
	CurrentFile string `json:"current_file,omitempty"`
	NextAction  Action `json:"next_action"`
	Thought     string `json:"thought,omitempty"`
	Action      string `json:"action,omitempty"`
	Observation string `json:"observation,omitempty"`
	Generated   int    `json:"generated"`
	Validated   int    `json:"validated"`
	Planned     int    `json:"planned"`
	Complete    bool   `json:"complete"`
}

// Emitter receives transitions as the run progresses.
type Emitter interface {
	Emit(Transition)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Transition)

func (f EmitterFunc) Emit(t Transition) { f(t) }

type noopEmitter struct{}

func (noopEmitter) Emit(Transition) {}

// ChannelEmitter sends transitions to a channel without blocking; events
// are dropped when the reader falls behind.
type ChannelEmitter struct {
	Ch chan<- Transition
}

func (e *ChannelEmitter) Emit(t Transition) {
	select {
	case e.Ch <- t:
	default:
	}
}

func newTransition(seq int, s State, eff Effect, prev State) Transition {
	t := Transition{
		Seq:         seq,
		Node:        s.Node,
		Effect:      eff.Kind.String(),
		Step:        s.CurrentStep,
		MaxSteps:    s.MaxSteps,
		CurrentFile: s.CurrentFile,
		NextAction:  s.NextAction,
		Generated:   len(s.Generated),
		Validated:   len(s.Validated),
		Planned:     len(s.Plan),
		Complete:    s.IsComplete,
	}
	if len(s.Thoughts) > len(prev.Thoughts) {
		t.Thought = s.Thoughts[len(s.Thoughts)-1]
	}
	if len(s.Actions) > len(prev.Actions) {
		t.Action = s.Actions[len(s.Actions)-1]
	}
	if len(s.Observations) > len(prev.Observations) {
		t.Observation = s.Observations[len(s.Observations)-1]
	}
	return t
}
