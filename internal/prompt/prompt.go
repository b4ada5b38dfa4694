// Package prompt renders the one-shot generation prompt.
package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"foxie/internal/fields"
	"foxie/internal/templates"
	"foxie/internal/types"
)

// Mode selects how authentication files are produced.
type Mode string

const (
	// ModeSplit asks the model for core files only and renders auth files
	// from local templates.
	ModeSplit Mode = "split"
	// ModeCombined asks the model for every file in one call.
	ModeCombined Mode = "combined"
)

// ParseMode accepts "split" or "combined"; empty means split.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSplit:
		return ModeSplit, nil
	case ModeCombined:
		return ModeCombined, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be %q or %q", s, ModeSplit, ModeCombined)
	}
}

// Input is everything substituted into the master template.
type Input struct {
	Resource      string
	Fields        []types.Field
	ProjectName   string
	StyleGuide    string
	Backend       types.Backend
	AuthEnabled   bool
	ProtectRoutes bool
	Mode          Mode
}

//go:embed master.tmpl
var masterText string

var master = template.Must(template.New("master").Parse(masterText))

// view is the template's data; derived names are computed once here.
type view struct {
	Input
	Module    string
	File      string
	Type      string
	Plural    string
	DBType    string
	Mongo     bool
	Split     bool
	Required  []string
	AuthFiles []string
	FieldList string
}

// Build renders the master prompt.
func Build(in Input) (string, error) {
	if strings.TrimSpace(in.Resource) == "" {
		return "", fmt.Errorf("prompt: resource is required")
	}
	if len(in.Fields) == 0 {
		return "", fmt.Errorf("prompt: at least one field is required")
	}
	if _, err := types.ParseBackend(string(in.Backend)); err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	mode, err := ParseMode(string(in.Mode))
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	in.Mode = mode
	data := templates.Data{ProjectName: in.ProjectName, Backend: in.Backend, AuthEnabled: in.AuthEnabled}
	v := view{
		Input:     in,
		Module:    data.Module(),
		File:      types.ResourceFile(in.Resource),
		Type:      types.ResourceType(in.Resource),
		Plural:    types.ResourcePlural(in.Resource),
		DBType:    data.DBType(),
		Mongo:     data.Mongo(),
		Split:     mode == ModeSplit,
		Required:  RequiredFiles(in),
		AuthFiles: AuthFiles(),
		FieldList: fields.Bullets(in.Fields),
	}

	var buf bytes.Buffer
	if err := master.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("prompt: render: %w", err)
	}
	return buf.String(), nil
}

// CoreFiles lists the non-auth files of a resource feature in plan order.
func CoreFiles(resource string) []string {
	r := types.ResourceFile(resource)
	return []string{
		"internal/core/config.go",
		"internal/database/db_session.go",
		"internal/models/base_model.go",
		"internal/models/" + r + ".go",
		"internal/schemas/" + r + ".go",
		"internal/crud/" + r + ".go",
		"internal/api/endpoints/" + r + ".go",
		"internal/api/router.go",
		"main.go",
	}
}

// AuthFiles lists the six standard authentication files.
func AuthFiles() []string {
	return templates.AuthPaths()
}

// RequiredFiles is the set the model is asked to return for in.
func RequiredFiles(in Input) []string {
	out := CoreFiles(in.Resource)
	if in.AuthEnabled && in.Mode == ModeCombined {
		out = append(out, AuthFiles()...)
	}
	return out
}
