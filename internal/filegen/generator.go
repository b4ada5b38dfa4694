package filegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"foxie/internal/llm"
	"foxie/internal/llmtool"
	"foxie/internal/logging"
	"foxie/internal/types"
	"foxie/internal/utils"
)

// Temperature used for single-file generation.
const Temperature float32 = 0.3

// ErrEmptyContent is returned when the model replies without file content.
var ErrEmptyContent = errors.New("filegen: empty file content")

// Project is what every file of a run shares.
type Project struct {
	Name          string
	Resource      string
	Fields        []types.Field
	Backend       types.Backend
	AuthEnabled   bool
	ProtectRoutes bool
}

// Examples supplies raw style-guide examples by name.
type Examples interface {
	Example(ctx context.Context, name string) (string, bool)
}

type fileInput struct {
	ProjectName string        `json:"project_name"`
	Resource    string        `json:"resource"`
	FilePath    string        `json:"file_path"`
	Kind        string        `json:"kind"`
	Backend     string        `json:"backend"`
	Module      string        `json:"module"`
	Fields      []types.Field `json:"fields,omitempty"`
}

type fileReply struct {
	Content     string `json:"content" prompt_desc:"Complete Go source of the file."`
	Description string `json:"description" prompt:"optional" prompt_desc:"One sentence describing the file."`
}

var (
	replyFields = llmtool.MustFieldsFromStruct(fileReply{})
	replySchema = llmtool.MustSchemaFromStruct(fileReply{})
)

// Generator produces one file per call.
type Generator struct {
	client   llm.LLMClient
	examples Examples
	log      *zap.Logger
}

// New returns a Generator. examples may be nil.
func New(client llm.LLMClient, examples Examples, log *zap.Logger) *Generator {
	return &Generator{client: client, examples: examples, log: logging.OrNop(log)}
}

// Prompt renders the prompt for t. related holds already generated files by
// path; only the ones t depends on are included.
func (g *Generator) Prompt(ctx context.Context, t Target, p Project, related map[string]string) (string, error) {
	n := newNaming(p)
	b := briefFor(t.Kind, n)
	in := fileInput{
		ProjectName: p.Name,
		Resource:    p.Resource,
		FilePath:    t.Path,
		Kind:        t.Kind.String(),
		Backend:     p.Backend.String(),
		Module:      n.Module,
	}
	if needsFields(t.Kind) {
		in.Fields = p.Fields
	}

	var sections []llmtool.Section
	if b.example != "" && g.examples != nil {
		if ex, ok := g.examples.Example(ctx, b.example); ok {
			sections = append(sections, llmtool.Section{Title: "Style example " + b.example, Body: ex})
		}
	}
	for _, path := range relatedPaths(t.Kind, p.Resource) {
		if body, ok := related[path]; ok && strings.TrimSpace(body) != "" {
			sections = append(sections, llmtool.Section{Title: "Related file " + path, Body: body})
		}
	}

	spec := llmtool.StructuredPromptSpec{
		Purpose:      b.purpose,
		Background:   fmt.Sprintf("Part of the gin service %q (module %s) exposing CRUD for %s.", p.Name, n.Module, n.Type),
		Input:        in,
		Sections:     sections,
		OutputFields: replyFields,
		Rules:        b.rules,
		Assumptions: []string{
			fmt.Sprintf("Internal packages are imported as %s/internal/<package>.", n.Module),
			"Related files are final; reuse their exported names exactly.",
		},
		OutputFormat: `{"content": "package ...", "description": "..."}`,
	}
	spec = llmtool.ApplyPresets(spec, llmtool.PresetStrictJSON(), llmtool.PresetGoSource(), llmtool.PresetNoInvent())
	return llmtool.Render(spec)
}

// Generate asks the model for the file at t.
func (g *Generator) Generate(ctx context.Context, t Target, p Project, related map[string]string) (types.GeneratedFile, error) {
	prompt, err := g.Prompt(ctx, t, p, related)
	if err != nil {
		return types.GeneratedFile{}, err
	}
	ctx = llm.WithTemperature(llm.WithPhase(ctx, "file"), Temperature)
	raw, err := g.client.GenerateJSON(ctx, prompt, replySchema)
	if err != nil {
		return types.GeneratedFile{}, fmt.Errorf("filegen: generate %s: %w", t.Path, err)
	}
	reply, err := llmtool.Decode[fileReply](raw)
	if err != nil {
		return types.GeneratedFile{}, fmt.Errorf("filegen: %s: %w", t.Path, err)
	}
	content := utils.StripCodeFence(reply.Content)
	if strings.TrimSpace(content) == "" {
		return types.GeneratedFile{}, fmt.Errorf("%w: %s", ErrEmptyContent, t.Path)
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	desc := strings.TrimSpace(reply.Description)
	if desc == "" {
		desc = fmt.Sprintf("%s file.", t.Kind)
	}
	g.log.Debug("file generated", zap.String("path", t.Path), zap.Stringer("kind", t.Kind), zap.Int("bytes", len(content)))
	return types.GeneratedFile{FilePath: t.Path, Content: content, Description: desc}, nil
}

func needsFields(k Kind) bool {
	switch k {
	case KindResourceModel, KindResourceSchema, KindResourceCRUD, KindResourceEndpoint, KindUnknown:
		return true
	}
	return false
}

func relatedPaths(k Kind, resource string) []string {
	var out []string
	for _, dep := range related[k] {
		out = append(out, PathOf(dep, resource))
	}
	return out
}
