// Package templates renders the files that never need a model call: the
// authentication layer and the static project files.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"foxie/internal/types"
)

//go:embed files/*.tmpl
var files embed.FS

var parsed = template.Must(template.New("").ParseFS(files, "files/*.tmpl"))

// Data parameterises every template.
type Data struct {
	ProjectName string
	Backend     types.Backend
	AuthEnabled bool
}

// Module is the Go module path of the generated project.
func (d Data) Module() string { return ModulePath(d.ProjectName) }

// Mongo reports whether the document backend is selected.
func (d Data) Mongo() bool { return d.Backend.IsDocument() }

// DBType is the database handle type passed between generated layers.
func (d Data) DBType() string {
	if d.Mongo() {
		return "*mongo.Database"
	}
	return "*gorm.DB"
}

type entry struct {
	path        string
	tmpl        string
	description string
}

var authFiles = []entry{
	{"internal/core/security.go", "security.go.tmpl", "Password hashing and JWT access tokens."},
	{"internal/models/user.go", "user_model.go.tmpl", "User account model."},
	{"internal/schemas/user.go", "user_schema.go.tmpl", "User request and response schemas."},
	{"internal/crud/user.go", "user_crud.go.tmpl", "User repository with registration and authentication."},
	{"internal/api/endpoints/auth.go", "auth_endpoint.go.tmpl", "Register and login endpoints."},
	{"internal/dependencies/auth_dependency.go", "auth_dependency.go.tmpl", "Bearer-token middleware resolving the current user."},
}

var projectFiles = []entry{
	{"go.mod", "go.mod.tmpl", "Go module definition with framework and database dependencies."},
	{".env.example", "env.example.tmpl", "Example environment configuration."},
}

// AuthPaths lists the paths RenderAuth produces, in order.
func AuthPaths() []string {
	out := make([]string, len(authFiles))
	for i, e := range authFiles {
		out[i] = e.path
	}
	return out
}

// RenderAuth renders the six authentication files.
func RenderAuth(d Data) ([]types.GeneratedFile, error) {
	return render(authFiles, d)
}

// RenderProject renders go.mod and .env.example.
func RenderProject(d Data) ([]types.GeneratedFile, error) {
	return render(projectFiles, d)
}

func render(entries []entry, d Data) ([]types.GeneratedFile, error) {
	if strings.TrimSpace(d.ProjectName) == "" {
		return nil, fmt.Errorf("templates: project name is required")
	}
	out := make([]types.GeneratedFile, 0, len(entries))
	for _, e := range entries {
		var buf bytes.Buffer
		if err := parsed.ExecuteTemplate(&buf, e.tmpl, d); err != nil {
			return nil, fmt.Errorf("templates: render %s: %w", e.tmpl, err)
		}
		out = append(out, types.GeneratedFile{
			FilePath:    e.path,
			Content:     buf.String(),
			Description: e.description,
		})
	}
	return out, nil
}

var reModuleInvalid = regexp.MustCompile(`[^a-z0-9._/-]+`)

// ModulePath derives a module path from a project name:
// "My Gin CRUD" -> "my-gin-crud".
func ModulePath(projectName string) string {
	s := strings.ToLower(strings.TrimSpace(projectName))
	s = reModuleInvalid.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-./")
	if s == "" {
		return "app"
	}
	return s
}
