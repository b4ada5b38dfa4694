// Package agent runs the plan/reason/act loop that builds a project one file
// at a time, validating each file and regenerating the ones that fail.
package agent

import (
	"foxie/internal/filegen"
	"foxie/internal/types"
)

// Action is what the reasoning step asks for next.
type Action string

const (
	ActionPlan     Action = "plan"
	ActionGenerate Action = "generate"
	ActionValidate Action = "validate"
	ActionFix      Action = "fix"
	ActionComplete Action = "complete"
)

// Node names the step the machine is in.
type Node string

const (
	NodeStart    Node = "start"
	NodePlan     Node = "plan"
	NodeReason   Node = "reason"
	NodeGenerate Node = "generate"
	NodeValidate Node = "validate"
	NodeFix      Node = "fix"
	NodeComplete Node = "complete"
)

// FileStatus tags a generated file.
type FileStatus string

const (
	StatusGenerated FileStatus = "generated"
	StatusValidated FileStatus = "validated"
)

// FileRecord is one generated file with its status.
type FileRecord struct {
	File   types.GeneratedFile `json:"file"`
	Status FileStatus          `json:"status"`
}

// State is the whole run. Reduce never mutates the State it receives; it
// works on a copy and returns it.
type State struct {
	Input    filegen.Project
	MaxSteps int
	Node     Node

	Plan                 []filegen.Target
	Generated            []FileRecord
	Validated            []string
	CurrentStep          int
	CurrentFile          string
	LastFailed           string
	LastValidationErrors []string
	Thoughts             []string
	Actions              []string
	Observations         []string
	IsComplete           bool
	NextAction           Action

	// discarded keeps the content removed by a fix until it is regenerated.
	discarded map[string]string
	// failures counts failed generation attempts per path.
	failures map[string]int
}

func (s State) clone() State {
	c := s
	c.Plan = append([]filegen.Target(nil), s.Plan...)
	c.Generated = append([]FileRecord(nil), s.Generated...)
	c.Validated = append([]string(nil), s.Validated...)
	c.LastValidationErrors = append([]string(nil), s.LastValidationErrors...)
	c.Thoughts = append([]string(nil), s.Thoughts...)
	c.Actions = append([]string(nil), s.Actions...)
	c.Observations = append([]string(nil), s.Observations...)
	c.discarded = make(map[string]string, len(s.discarded))
	for k, v := range s.discarded {
		c.discarded[k] = v
	}
	c.failures = make(map[string]int, len(s.failures))
	for k, v := range s.failures {
		c.failures[k] = v
	}
	return c
}

// PlannedFiles lists planned paths in order.
func (s State) PlannedFiles() []string { return filegen.Paths(s.Plan) }

// Pending lists planned paths without a generated file.
func (s State) Pending() []string {
	var out []string
	for _, t := range s.Plan {
		if _, ok := s.file(t.Path); !ok {
			out = append(out, t.Path)
		}
	}
	return out
}

// IsValidated reports whether path is in the validated set.
func (s State) IsValidated(path string) bool {
	for _, v := range s.Validated {
		if v == path {
			return true
		}
	}
	return false
}

// AllValidated reports whether every planned file is validated.
func (s State) AllValidated() bool {
	if len(s.Validated) == 0 || len(s.Plan) == 0 {
		return false
	}
	for _, t := range s.Plan {
		if !s.IsValidated(t.Path) {
			return false
		}
	}
	return true
}

// Contents maps generated paths to their content.
func (s State) Contents() map[string]string {
	out := make(map[string]string, len(s.Generated))
	for _, r := range s.Generated {
		out[r.File.FilePath] = r.File.Content
	}
	return out
}

func (s State) file(path string) (FileRecord, bool) {
	for _, r := range s.Generated {
		if r.File.FilePath == path {
			return r, true
		}
	}
	return FileRecord{}, false
}

func (s State) target(path string) (filegen.Target, bool) {
	for _, t := range s.Plan {
		if t.Path == path {
			return t, true
		}
	}
	return filegen.Target{}, false
}

func (s *State) markValidated(path string) {
	if !s.IsValidated(path) {
		s.Validated = append(s.Validated, path)
	}
	for i := range s.Generated {
		if s.Generated[i].File.FilePath == path {
			s.Generated[i].Status = StatusValidated
		}
	}
}

func (s *State) unmarkValidated(path string) {
	out := s.Validated[:0]
	for _, v := range s.Validated {
		if v != path {
			out = append(out, v)
		}
	}
	s.Validated = out
}

func (s *State) putFile(f types.GeneratedFile) {
	for i := range s.Generated {
		if s.Generated[i].File.FilePath == f.FilePath {
			s.Generated[i] = FileRecord{File: f, Status: StatusGenerated}
			return
		}
	}
	s.Generated = append(s.Generated, FileRecord{File: f, Status: StatusGenerated})
}

func (s *State) removeFile(path string) (types.GeneratedFile, bool) {
	for i, r := range s.Generated {
		if r.File.FilePath == path {
			s.Generated = append(s.Generated[:i], s.Generated[i+1:]...)
			return r.File, true
		}
	}
	return types.GeneratedFile{}, false
}
