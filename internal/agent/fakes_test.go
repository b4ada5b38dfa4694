package agent

import (
	"context"
	"errors"
	"strings"
	"sync"

	"foxie/internal/filegen"
	"foxie/internal/types"
)

func taskProject() filegen.Project {
	return filegen.Project{
		Name:     "todo",
		Resource: "task",
		Fields:   []types.Field{{Name: "title", Type: "str"}, {Name: "done", Type: "bool"}},
		Backend:  types.BackendSQL,
	}
}

// cleanContent passes every validator rule for path.
func cleanContent(path string) string {
	if strings.Contains(path, "/api/") {
		return "package api\n\nimport \"github.com/gin-gonic/gin\"\n\nfunc RegisterRoutes(e *gin.Engine) {}\n"
	}
	return "package x\n"
}

type failingPlanner struct{}

func (failingPlanner) Plan(context.Context, filegen.Project) ([]string, error) {
	return nil, errors.New("no plan")
}

// followReasoner accepts whatever the machine proposed.
type followReasoner struct{}

func (followReasoner) Reason(_ context.Context, s State) (Decision, error) {
	d := Decision{Reasoning: "follow " + string(s.NextAction), NextAction: s.NextAction}
	if s.NextAction == ActionFix || s.NextAction == ActionValidate {
		d.TargetFile = s.CurrentFile
	}
	return d, nil
}

type brokenReasoner struct{}

func (brokenReasoner) Reason(context.Context, State) (Decision, error) {
	return Decision{}, errors.New("model unavailable")
}

// scriptedGenerator returns queued outcomes per path, then clean content.
type scriptedGenerator struct {
	mu      sync.Mutex
	queue   map[string][]func() (string, error)
	order   []string
	related map[string]map[string]string
}

func newScriptedGenerator() *scriptedGenerator {
	return &scriptedGenerator{queue: map[string][]func() (string, error){}, related: map[string]map[string]string{}}
}

func (g *scriptedGenerator) then(path string, fn func() (string, error)) *scriptedGenerator {
	g.queue[path] = append(g.queue[path], fn)
	return g
}

func (g *scriptedGenerator) Generate(_ context.Context, t filegen.Target, _ filegen.Project, related map[string]string) (types.GeneratedFile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.order = append(g.order, t.Path)
	g.related[t.Path] = related
	content := cleanContent(t.Path)
	if q := g.queue[t.Path]; len(q) > 0 {
		g.queue[t.Path] = q[1:]
		c, err := q[0]()
		if err != nil {
			return types.GeneratedFile{}, err
		}
		content = c
	}
	return types.GeneratedFile{FilePath: t.Path, Content: content, Description: t.Kind.String()}, nil
}

type alwaysFail struct{}

func (alwaysFail) Generate(context.Context, filegen.Target, filegen.Project, map[string]string) (types.GeneratedFile, error) {
	return types.GeneratedFile{}, errors.New("boom")
}
