package llmtool

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

type fileReply struct {
	Content     string `json:"content" prompt_desc:"Full file content."`
	Description string `json:"description" prompt:"optional"`
	Action      string `json:"action" prompt_enum:"generate|fix"`
	Ignored     string `json:"-"`
	Tags        []string
}

func TestRender_RendersSections(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "Generate one Go file.",
		Background:   "Project demo.",
		Input:        map[string]any{"path": "internal/models/task.go"},
		Sections:     []Section{{Title: "style_example", Body: "package models"}},
		OutputFields: MustFieldsFromStruct(fileReply{}),
		Constraints:  []string{"No markdown."},
		Rules:        []string{"Be concise."},
		Assumptions:  []string{"If unsure, keep it minimal."},
		OutputFormat: "JSON only.",
		Examples:     []PromptExample{{InputJSON: `{"path":"a.go"}`, OutputJSON: `{"content":"package a"}`}},
	}
	out, err := Render(spec)
	require.NoError(t, err)

	for _, sec := range []string{
		"[PURPOSE]", "[BACKGROUND]", "[INPUT]", "[STYLE_EXAMPLE]", "[OUTPUT]",
		"[CONSTRAINTS]", "[RULES]", "[ASSUMPTIONS]", "[OUTPUT_FORMAT]", "[EXAMPLES]",
	} {
		assert.Contains(t, out, sec)
	}
	assert.Less(t, strings.Index(out, "[INPUT]"), strings.Index(out, "[STYLE_EXAMPLE]"))
	assert.Contains(t, out, "- content (string, required): Full file content.")
	assert.Contains(t, out, "- description (string, optional)")
	assert.Contains(t, out, "One of: generate, fix.")
	assert.NotContains(t, out, "Ignored")
}

func TestRender_OmitsEmptySections(t *testing.T) {
	out, err := Render(StructuredPromptSpec{
		Purpose:      "x",
		OutputFields: []PromptField{{Name: "a", Type: "string", Required: true}},
		Sections:     []Section{{Title: "empty", Body: "  "}},
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "[EMPTY]")
	assert.NotContains(t, out, "[INPUT]")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestRender_RequiresPurposeAndOutput(t *testing.T) {
	_, err := Render(StructuredPromptSpec{OutputFields: []PromptField{{Name: "a"}}})
	assert.ErrorContains(t, err, "purpose")
	_, err = Render(StructuredPromptSpec{Purpose: "x"})
	assert.ErrorContains(t, err, "output fields")
}

func TestSchemaFromStruct(t *testing.T) {
	s, err := SchemaFromStruct(&fileReply{})
	require.NoError(t, err)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"content", "description", "action", "tags"}, s.PropertyOrdering)
	assert.Equal(t, []string{"content", "action", "tags"}, s.Required)
	assert.Equal(t, []string{"generate", "fix"}, s.Properties["action"].Enum)
	assert.Equal(t, genai.TypeArray, s.Properties["tags"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)

	_, err = SchemaFromStruct("nope")
	assert.Error(t, err)
}

func TestApplyPresets_PrependConstraintsAndRules(t *testing.T) {
	spec := StructuredPromptSpec{Constraints: []string{"own"}, Rules: []string{"own-rule"}}
	applied := ApplyPresets(spec, PresetStrictJSON(), PresetGoSource())
	assert.Equal(t, "Return strict JSON only.", applied.Constraints[0])
	assert.Equal(t, "own", applied.Constraints[len(applied.Constraints)-1])
	assert.Equal(t, "own-rule", applied.Rules[len(applied.Rules)-1])
}

func TestDecode(t *testing.T) {
	got, err := Decode[fileReply](json.RawMessage("```json\n{\"content\":\"package a\"}\n```"))
	require.NoError(t, err)
	assert.Equal(t, "package a", got.Content)

	_, err = Decode[fileReply](json.RawMessage("nothing"))
	assert.Error(t, err)
}
